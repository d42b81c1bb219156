package usecase

import (
	"context"
	"fmt"
	"strings"

	"mailrag-backend/internal/email/domain"
	"mailrag-backend/pkg/ai"
)

const (
	// DefaultTopK is the number of documents retrieved per question.
	DefaultTopK = 4

	// EmptyQuestionReply is returned for blank questions instead of an error.
	EmptyQuestionReply = "Please enter a question about your mailbox."

	systemPrompt = "You are a helpful assistant that answers questions about a mailbox. " +
		"Use the provided email context when it is relevant. If the answer cannot be " +
		"determined from the context, say so explicitly."

	contextSeparator = "\n\n---\n\n"
)

// DocumentRetriever finds the stored records nearest to a query text.
type DocumentRetriever interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.EmailRecord, error)
}

// ChatUsecase answers questions against the ingested mailbox. Each call is
// independent; no conversation state is kept.
type ChatUsecase interface {
	Answer(ctx context.Context, question string) (string, error)
}

type chatUsecase struct {
	retriever DocumentRetriever
	model     ai.CompletionService
	topK      int
}

// NewChatUsecase creates a new instance of chatUsecase.
func NewChatUsecase(retriever DocumentRetriever, model ai.CompletionService) ChatUsecase {
	return &chatUsecase{
		retriever: retriever,
		model:     model,
		topK:      DefaultTopK,
	}
}

func (u *chatUsecase) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return EmptyQuestionReply, nil
	}

	records, err := u.retriever.SimilaritySearch(ctx, question, u.topK)
	if err != nil {
		return "", fmt.Errorf("similarity search failed: %w", err)
	}

	userPrompt := fmt.Sprintf("Question: %s\n\nEmail context:\n%s", question, formatRecords(records))
	answer, err := u.model.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

func formatRecords(records []domain.EmailRecord) string {
	blocks := make([]string, 0, len(records))
	for _, record := range records {
		subject := record.Subject
		if subject == "" {
			subject = "Untitled email"
		}
		block := fmt.Sprintf("Subject: %s\nSnippet: %s\n\n%s", subject, record.Preview(), record.Content)
		blocks = append(blocks, strings.TrimSpace(block))
	}
	return strings.Join(blocks, contextSeparator)
}
