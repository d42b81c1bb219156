package cmd

import (
	"fmt"
	"log"

	"mailrag-backend/internal/notification"
	"mailrag-backend/pkg/config"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow Gmail push notifications and ingest new messages",
		Long: `Registers the mailbox for push notifications on the configured Pub/Sub
topic, then listens on the matching subscription and runs an incremental
ingest whenever the mailbox changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.GoogleProjectID == "" {
				return fmt.Errorf("%w: GOOGLE_PROJECT_ID is required for watch", config.ErrMissingConfig)
			}

			gmailSvc, _, err := buildGmailService(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			topicResource := fmt.Sprintf("projects/%s/topics/%s", cfg.GoogleProjectID, cfg.GooglePubSubTopic)
			historyID, err := gmailSvc.Watch(cmd.Context(), topicResource)
			if err != nil {
				return err
			}
			log.Printf("[Watch] Mailbox registered on %s (historyId: %d)", topicResource, historyID)

			ingest, err := buildIngestUsecase(cmd.Context(), cfg, "gmail")
			if err != nil {
				return err
			}

			svc, err := notification.NewService(cfg.GoogleProjectID, cfg.GooglePubSubTopic, ingest, cfg.GoogleCredentials)
			if err != nil {
				return err
			}
			return svc.Start(cmd.Context())
		},
	}
	return cmd
}
