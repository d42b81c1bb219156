package cmd

import (
	"fmt"
	"strings"

	chatUsecase "mailrag-backend/internal/chat/usecase"
	"mailrag-backend/pkg/ai"
	"mailrag-backend/pkg/config"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask a question about the ingested mailbox",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			chat, err := buildChatUsecase(cfg)
			if err != nil {
				return err
			}

			answer, err := chat.Answer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Println(answer)
			return nil
		},
	}
	return cmd
}

func buildChatUsecase(cfg *config.Config) (chatUsecase.ChatUsecase, error) {
	if err := cfg.RequireEmbedding(); err != nil {
		return nil, err
	}

	recordRepo, err := buildRecordRepository(cfg)
	if err != nil {
		return nil, err
	}

	model, err := ai.NewCompletionService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		return nil, err
	}

	return chatUsecase.NewChatUsecase(recordRepo, model), nil
}
