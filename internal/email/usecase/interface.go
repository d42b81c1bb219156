package usecase

import (
	"context"

	"mailrag-backend/internal/email/domain"
)

// MessageIterator walks a mailbox query one message at a time, following
// provider pagination under the hood. Next returns domain.ErrNoMoreMessages
// once the result set is exhausted.
type MessageIterator interface {
	Next(ctx context.Context) (domain.Document, error)
}

// MailboxProvider produces a fresh iterator per call. Implementations exist
// for Gmail (pkg/gmail) and IMAP (pkg/imap).
type MailboxProvider interface {
	Messages(ctx context.Context, query string, pageSize int64) MessageIterator
}

// Embedder converts text into an embedding vector. Injected so vectorization
// is testable without network access.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IngestUsecase defines the ingestion operations
type IngestUsecase interface {
	// Ingest pages through the mailbox and persists every shaped message with
	// a non-empty body, up to limit when limit > 0. Returns the number of
	// messages actually persisted.
	Ingest(ctx context.Context, query string, limit int) (int, error)
	// IngestNew behaves like Ingest but skips messages already recorded in the
	// sync history; used by the Pub/Sub watch path.
	IngestNew(ctx context.Context, query string, limit int) (int, error)
	// Vectorize backfills embeddings for records whose vectorized flag is
	// still false. Returns the number of records vectorized.
	Vectorize(ctx context.Context, limit int) (int, error)
}
