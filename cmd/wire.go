package cmd

import (
	"context"
	"fmt"
	"log"

	emaildomain "mailrag-backend/internal/email/domain"
	emailRepo "mailrag-backend/internal/email/repository"
	emailUsecase "mailrag-backend/internal/email/usecase"
	"mailrag-backend/pkg/chroma"
	"mailrag-backend/pkg/config"
	"mailrag-backend/pkg/database"
	"mailrag-backend/pkg/gemini"
	"mailrag-backend/pkg/gmail"
	"mailrag-backend/pkg/imap"
)

// buildRecordRepository connects to Chroma and wraps the collection in the
// record repository.
func buildRecordRepository(cfg *config.Config) (emailRepo.EmailRecordRepository, error) {
	client, err := chroma.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return emailRepo.NewEmailRecordRepository(client, cfg.ChromaCollection, client.Embeds()), nil
}

// buildMailboxProvider selects the mailbox provider. Gmail is the default;
// IMAP is used when requested explicitly.
func buildMailboxProvider(ctx context.Context, cfg *config.Config, provider string) (emailUsecase.MailboxProvider, error) {
	if provider == "imap" {
		if err := cfg.RequireImap(); err != nil {
			return nil, err
		}
		return imap.NewService(cfg.ImapServer, cfg.ImapPort, cfg.ImapUsername, cfg.ImapPassword), nil
	}
	svc, _, err := buildGmailService(ctx, cfg)
	return svc, err
}

// buildGmailService creates the Gmail reader together with its credential
// store, so refreshed tokens get persisted.
func buildGmailService(ctx context.Context, cfg *config.Config) (*gmail.Service, *gmail.CredentialStore, error) {
	if err := cfg.RequireGoogle(); err != nil {
		return nil, nil, err
	}

	store := gmail.NewCredentialStore(cfg.TokenFile, cfg.TokenSecret)
	token, err := gmail.ResolveToken(cfg, store)
	if err != nil {
		return nil, nil, err
	}

	svc, err := gmail.NewService(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GmailUserID, token, store.Persist)
	if err != nil {
		return nil, nil, err
	}
	return svc, store, nil
}

// buildSyncHistory opens the sync-history repository when a database is
// configured; without one, ingestion simply runs without history tracking.
func buildSyncHistory(cfg *config.Config) emailRepo.EmailSyncHistoryRepository {
	if cfg.DatabaseURL == "" {
		return nil
	}
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Printf("[Ingest] sync history disabled: %v", err)
		return nil
	}
	if err := db.AutoMigrate(&emaildomain.EmailSyncHistory{}); err != nil {
		log.Printf("[Ingest] sync history disabled, migration failed: %v", err)
		return nil
	}
	return emailRepo.NewEmailSyncHistoryRepository(db)
}

// buildIngestUsecase assembles the full ingestion pipeline.
func buildIngestUsecase(ctx context.Context, cfg *config.Config, provider string) (emailUsecase.IngestUsecase, error) {
	if err := cfg.RequireEmbedding(); err != nil {
		return nil, err
	}

	mailbox, err := buildMailboxProvider(ctx, cfg, provider)
	if err != nil {
		return nil, err
	}
	recordRepo, err := buildRecordRepository(cfg)
	if err != nil {
		return nil, err
	}

	embedder := gemini.NewGeminiService(cfg.GeminiAPIKey)
	return emailUsecase.NewIngestUsecase(mailbox, recordRepo, buildSyncHistory(cfg), embedder), nil
}

func providerFlagUsage() string {
	return fmt.Sprintf("mailbox provider to read from (%q or %q)", "gmail", "imap")
}
