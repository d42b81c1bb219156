package cmd

import (
	"log"

	"mailrag-backend/cmd/api"
	"mailrag-backend/pkg/config"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP chat front-end",
		Long: `Starts an HTTP server exposing the question/answer interaction at
POST /api/chat and an ingestion trigger at POST /api/ingest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			chat, err := buildChatUsecase(cfg)
			if err != nil {
				return err
			}
			ingest, err := buildIngestUsecase(cmd.Context(), cfg, "gmail")
			if err != nil {
				return err
			}

			handler := api.NewHandler(chat, ingest)
			log.Printf("Server starting on port %s", cfg.Port)
			return handler.Start(":" + cfg.Port)
		},
	}
	return cmd
}
