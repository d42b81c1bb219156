package api

import (
	"net/http"

	chatUsecase "mailrag-backend/internal/chat/usecase"
	emailUsecase "mailrag-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, chat chatUsecase.ChatUsecase, ingest emailUsecase.IngestUsecase) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/chat", handleChat(chat))
		api.POST("/ingest", handleIngest(ingest))
	}
}
