package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"mailrag-backend/internal/email/domain"
	"mailrag-backend/internal/email/repository"
)

const defaultPageSize = 100

// ingestUsecase drives the read → shape → persist pipeline.
type ingestUsecase struct {
	provider    MailboxProvider
	recordRepo  repository.EmailRecordRepository
	syncHistory repository.EmailSyncHistoryRepository // optional, may be nil
	embedder    Embedder                              // optional, required for Vectorize
	pageSize    int64
}

// NewIngestUsecase creates a new instance of ingestUsecase. syncHistory and
// embedder may be nil; the corresponding features degrade gracefully.
func NewIngestUsecase(provider MailboxProvider, recordRepo repository.EmailRecordRepository, syncHistory repository.EmailSyncHistoryRepository, embedder Embedder) IngestUsecase {
	return &ingestUsecase{
		provider:    provider,
		recordRepo:  recordRepo,
		syncHistory: syncHistory,
		embedder:    embedder,
		pageSize:    defaultPageSize,
	}
}

func (u *ingestUsecase) Ingest(ctx context.Context, query string, limit int) (int, error) {
	return u.ingest(ctx, query, limit, false)
}

func (u *ingestUsecase) IngestNew(ctx context.Context, query string, limit int) (int, error) {
	return u.ingest(ctx, query, limit, true)
}

func (u *ingestUsecase) ingest(ctx context.Context, query string, limit int, skipSynced bool) (int, error) {
	it := u.provider.Messages(ctx, query, u.pageSize)

	count := 0
	for {
		doc, err := it.Next(ctx)
		if errors.Is(err, domain.ErrNoMoreMessages) {
			break
		}
		if err != nil {
			return count, err
		}

		// Empty bodies are a policy skip, not an error.
		if strings.TrimSpace(doc.Text) == "" {
			continue
		}

		// The incremental path claims the message in one query; a full ingest
		// marks it after the write instead.
		claimed := false
		if skipSynced && u.syncHistory != nil {
			alreadySynced, err := u.syncHistory.EnsureMessageSynced(doc.ID)
			if err != nil {
				return count, err
			}
			if alreadySynced {
				continue
			}
			claimed = true
		}

		if _, err := u.recordRepo.Upsert(ctx, doc.Record(), nil); err != nil {
			if claimed {
				// Release the claim so the message is retried next run.
				if derr := u.syncHistory.DeleteSyncHistory(doc.ID); derr != nil {
					log.Printf("[Ingest] failed to release sync mark for %s: %v", doc.ID, derr)
				}
			}
			return count, err
		}
		count++

		if u.syncHistory != nil && !claimed {
			if err := u.syncHistory.MarkMessageAsSynced(doc.ID); err != nil {
				log.Printf("[Ingest] failed to record sync history for %s: %v", doc.ID, err)
			}
		}

		if limit > 0 && count >= limit {
			break
		}
	}

	if count > 0 {
		if err := u.recordRepo.Flush(ctx); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (u *ingestUsecase) Vectorize(ctx context.Context, limit int) (int, error) {
	if u.embedder == nil {
		return 0, errors.New("no embedder configured")
	}
	if limit <= 0 {
		limit = 100
	}

	records, err := u.recordRepo.ListUnvectorized(ctx, limit)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, record := range records {
		if strings.TrimSpace(record.Content) == "" {
			// Bare records have nothing to embed; flag them directly so they
			// stop showing up as pending.
			if err := u.recordRepo.MarkVectorized(ctx, record.MessageID, true); err != nil {
				return count, err
			}
			continue
		}

		vector, err := u.embedder.Embed(ctx, record.Content)
		if err != nil {
			return count, err
		}
		if _, err := u.recordRepo.Upsert(ctx, record, vector); err != nil {
			return count, err
		}
		count++
	}

	if count > 0 {
		if err := u.recordRepo.Flush(ctx); err != nil {
			return count, err
		}
	}
	return count, nil
}
