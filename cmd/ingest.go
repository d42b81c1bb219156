package cmd

import (
	"fmt"

	"mailrag-backend/pkg/config"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	var (
		query    string
		limit    int
		provider string
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Sync mailbox messages into the vector store",
		Long: `Pages through the mailbox, shapes each message into a plain-text document
and upserts it into the Chroma collection. Messages with an empty body are
skipped. Re-running the command updates existing records in place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			ingest, err := buildIngestUsecase(cmd.Context(), cfg, provider)
			if err != nil {
				return err
			}

			count, err := ingest.Ingest(cmd.Context(), query, limit)
			if err != nil {
				return err
			}

			fmt.Printf("Ingested %d messages into the vector store.\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "provider search query to filter messages")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum number of messages to ingest (0 = unlimited)")
	cmd.Flags().StringVarP(&provider, "provider", "p", "gmail", providerFlagUsage())
	return cmd
}
