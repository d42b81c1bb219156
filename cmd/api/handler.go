package api

import (
	"errors"
	"io"
	"net/http"

	chatUsecase "mailrag-backend/internal/chat/usecase"
	emailUsecase "mailrag-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *gin.Engine
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type ingestRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type ingestResponse struct {
	Count int `json:"count"`
}

// NewHandler wires the HTTP surface: a chat endpoint over the retrieval chain
// and an ingest trigger.
func NewHandler(chat chatUsecase.ChatUsecase, ingest emailUsecase.IngestUsecase) *Handler {
	r := gin.Default()
	SetupRoutes(r, chat, ingest)
	return &Handler{engine: r}
}

// Start runs the HTTP server on the given address.
func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}

func handleChat(chat chatUsecase.ChatUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			// A missing question gets the retry prompt, not an error.
			c.JSON(http.StatusOK, chatResponse{Answer: chatUsecase.EmptyQuestionReply})
			return
		}

		answer, err := chat.Answer(c.Request.Context(), req.Question)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, chatResponse{Answer: answer})
	}
}

func handleIngest(ingest emailUsecase.IngestUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ingestRequest
		// An empty body is fine, it means ingest everything.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		count, err := ingest.Ingest(c.Request.Context(), req.Query, req.Limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, ingestResponse{Count: count})
	}
}
