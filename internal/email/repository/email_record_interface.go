package repository

import (
	"context"

	"mailrag-backend/internal/email/domain"
)

// RecordStore is the slice of the vector store the record repository needs.
// pkg/chroma implements it; tests use an in-memory fake.
type RecordStore interface {
	Upsert(ctx context.Context, key string, record domain.EmailRecord, vector []float32) error
	Get(ctx context.Context, key string) (domain.EmailRecord, bool, error)
	ListUnvectorized(ctx context.Context, limit int) ([]domain.EmailRecord, error)
	Query(ctx context.Context, text string, k int) ([]domain.EmailRecord, error)
	Flush(ctx context.Context) error
}

// EmailRecordRepository owns the mapping between message ids and storage keys
// and enforces the vectorized-flag semantics on top of the store.
type EmailRecordRepository interface {
	// Upsert inserts or fully replaces the record keyed by its message id and
	// returns the storage key. A non-nil vector forces the vectorized flag on.
	Upsert(ctx context.Context, record domain.EmailRecord, vector []float32) (string, error)
	// MarkVectorized flips only the vectorized flag of the stored record. A
	// missing record is created as a bare entry carrying the flag.
	MarkVectorized(ctx context.Context, messageID string, vectorized bool) error
	// ListUnvectorized returns up to limit records still awaiting a vector.
	ListUnvectorized(ctx context.Context, limit int) ([]domain.EmailRecord, error)
	// SimilaritySearch returns the k records nearest to the query text.
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.EmailRecord, error)
	// Flush persists pending writes; a no-op when nothing changed.
	Flush(ctx context.Context) error
}
