package repository

import (
	"context"
	"fmt"

	"mailrag-backend/internal/email/domain"

	"github.com/google/uuid"
)

// emailRecordRepository implements EmailRecordRepository on top of a
// RecordStore.
type emailRecordRepository struct {
	store       RecordStore
	collection  string
	storeEmbeds bool
}

// NewEmailRecordRepository creates a new instance of emailRecordRepository.
// storeEmbeds reports whether the backing collection attaches an embedding to
// every written document; when true, upserted records are flagged vectorized
// even without an explicit vector.
func NewEmailRecordRepository(store RecordStore, collection string, storeEmbeds bool) EmailRecordRepository {
	return &emailRecordRepository{
		store:       store,
		collection:  collection,
		storeEmbeds: storeEmbeds,
	}
}

// KeyFor derives the storage key for a message id. The derivation is a UUIDv5
// namespaced by the collection name, so the same message id always maps to the
// same key across process restarts.
func KeyFor(collection, messageID string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(collection+":"+messageID)).String()
}

func (r *emailRecordRepository) Upsert(ctx context.Context, record domain.EmailRecord, vector []float32) (string, error) {
	if record.MessageID == "" {
		return "", fmt.Errorf("record has no message id")
	}
	if vector != nil || r.storeEmbeds {
		record.IsVectorized = true
	}

	key := KeyFor(r.collection, record.MessageID)
	if err := r.store.Upsert(ctx, key, record, vector); err != nil {
		return "", err
	}
	return key, nil
}

func (r *emailRecordRepository) MarkVectorized(ctx context.Context, messageID string, vectorized bool) error {
	key := KeyFor(r.collection, messageID)

	// Read-modify-write so every other field survives the flag change.
	record, found, err := r.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		record = domain.EmailRecord{MessageID: messageID}
	}
	record.IsVectorized = vectorized
	return r.store.Upsert(ctx, key, record, nil)
}

func (r *emailRecordRepository) ListUnvectorized(ctx context.Context, limit int) ([]domain.EmailRecord, error) {
	return r.store.ListUnvectorized(ctx, limit)
}

func (r *emailRecordRepository) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.EmailRecord, error) {
	return r.store.Query(ctx, query, k)
}

func (r *emailRecordRepository) Flush(ctx context.Context) error {
	return r.store.Flush(ctx)
}
