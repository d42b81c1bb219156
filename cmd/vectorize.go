package cmd

import (
	"fmt"

	emailUsecase "mailrag-backend/internal/email/usecase"
	"mailrag-backend/pkg/config"
	"mailrag-backend/pkg/gemini"

	"github.com/spf13/cobra"
)

func newVectorizeCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "vectorize",
		Short: "Backfill embeddings for records that are not vectorized yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.RequireEmbedding(); err != nil {
				return err
			}

			recordRepo, err := buildRecordRepository(cfg)
			if err != nil {
				return err
			}

			// No mailbox provider needed for backfill.
			embedder := gemini.NewGeminiService(cfg.GeminiAPIKey)
			ingest := emailUsecase.NewIngestUsecase(nil, recordRepo, nil, embedder)

			count, err := ingest.Vectorize(cmd.Context(), limit)
			if err != nil {
				return err
			}

			fmt.Printf("Vectorized %d records.\n", count)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 100, "maximum number of pending records to process")
	return cmd
}
