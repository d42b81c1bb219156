package chroma

import (
	"context"
	"fmt"
	"os"
	"time"

	"mailrag-backend/internal/email/domain"
	"mailrag-backend/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	"github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
)

// Metadata keys of the email collection. The document text carries the body;
// everything else lives in metadata.
const (
	metaMessageID    = "message_id"
	metaSubject      = "subject"
	metaSentAt       = "sent_at"
	metaIsRead       = "is_read"
	metaIsVectorized = "is_vectorized"
)

type Client struct {
	client     chroma.Client
	collection chroma.Collection
	embeds     bool
}

// NewClient connects to Chroma (local HTTP or Chroma Cloud) and ensures the
// email collection exists. When the Gemini API key is configured the
// collection gets a server-side embedding function, so documents are embedded
// at write time.
func NewClient(cfg *config.Config) (*Client, error) {
	var opts []chroma.ClientOption
	if cfg.ChromaAPIKey != "" {
		opts = append(opts, chroma.WithBaseURL(chroma.ChromaCloudEndpoint), chroma.WithCloudAPIKey(cfg.ChromaAPIKey))
		if cfg.ChromaDatabase != "" && cfg.ChromaTenant != "" {
			opts = append(opts, chroma.WithDatabaseAndTenant(cfg.ChromaDatabase, cfg.ChromaTenant))
		} else if cfg.ChromaTenant != "" {
			opts = append(opts, chroma.WithTenant(cfg.ChromaTenant))
		}
	} else {
		opts = append(opts, chroma.WithBaseURL(cfg.ChromaURL))
	}

	client, err := chroma.NewHTTPClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	collectionOpts := []chroma.CreateCollectionOption{}
	embeds := false
	if cfg.GeminiAPIKey != "" {
		os.Setenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
		embedFunc, err := gemini.NewGeminiEmbeddingFunction(
			gemini.WithEnvAPIKey(),
			gemini.WithDefaultModel("text-embedding-004"),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
		}
		collectionOpts = append(collectionOpts, chroma.WithEmbeddingFunctionCreate(embedFunc))
		embeds = true
	}

	ctx := context.Background()
	collection, err := client.GetOrCreateCollection(ctx, cfg.ChromaCollection, collectionOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", cfg.ChromaCollection, err)
	}

	return &Client{client: client, collection: collection, embeds: embeds}, nil
}

// Embeds reports whether the collection attaches an embedding to each
// document at write time.
func (c *Client) Embeds() bool {
	return c.embeds
}

// Upsert inserts or fully replaces the record stored at key. A non-nil vector
// is attached explicitly instead of relying on the collection's embedding
// function.
func (c *Client) Upsert(ctx context.Context, key string, record domain.EmailRecord, vector []float32) error {
	metadata, err := chroma.NewDocumentMetadataFromMap(map[string]interface{}{
		metaMessageID:    record.MessageID,
		metaSubject:      record.Subject,
		metaSentAt:       record.SentAt.Format(time.RFC3339),
		metaIsRead:       record.IsRead,
		metaIsVectorized: record.IsVectorized,
	})
	if err != nil {
		return fmt.Errorf("failed to create metadata: %w", err)
	}

	upsertOpts := []chroma.CollectionAddOption{
		chroma.WithIDs(chroma.DocumentID(key)),
		chroma.WithMetadatas(metadata),
		chroma.WithTexts(record.Content),
	}
	if vector != nil {
		upsertOpts = append(upsertOpts, chroma.WithEmbeddings(embeddings.NewEmbeddingFromFloat32(vector)))
	}

	if err := c.collection.Upsert(ctx, upsertOpts...); err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", record.MessageID, err)
	}
	return nil
}

// Get fetches the record stored at key, reporting whether it exists.
func (c *Client) Get(ctx context.Context, key string) (domain.EmailRecord, bool, error) {
	result, err := c.collection.Get(ctx, chroma.WithIDsGet(chroma.DocumentID(key)))
	if err != nil {
		return domain.EmailRecord{}, false, fmt.Errorf("failed to get record at %s: %w", key, err)
	}
	ids := result.GetIDs()
	if len(ids) == 0 {
		return domain.EmailRecord{}, false, nil
	}
	return recordFromResult(result.GetDocuments(), result.GetMetadatas(), 0), true, nil
}

// ListUnvectorized returns up to limit records whose vectorized flag is still
// false, in store-defined order.
func (c *Client) ListUnvectorized(ctx context.Context, limit int) ([]domain.EmailRecord, error) {
	result, err := c.collection.Get(ctx,
		chroma.WithWhereGet(chroma.EqBool(metaIsVectorized, false)),
		chroma.WithLimitGet(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unvectorized records: %w", err)
	}

	records := make([]domain.EmailRecord, 0, len(result.GetIDs()))
	for i := range result.GetIDs() {
		records = append(records, recordFromResult(result.GetDocuments(), result.GetMetadatas(), i))
	}
	return records, nil
}

// Query runs a nearest-neighbor search for text and returns the k closest
// records.
func (c *Client) Query(ctx context.Context, text string, k int) ([]domain.EmailRecord, error) {
	results, err := c.collection.Query(ctx,
		chroma.WithQueryTexts(text),
		chroma.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	if results == nil || results.CountGroups() == 0 {
		return []domain.EmailRecord{}, nil
	}

	docGroups := results.GetDocumentsGroups()
	metaGroups := results.GetMetadatasGroups()
	if len(docGroups) == 0 {
		return []domain.EmailRecord{}, nil
	}

	records := make([]domain.EmailRecord, 0, len(docGroups[0]))
	for i := range docGroups[0] {
		records = append(records, recordFromResult(docGroups[0], metaGroups[0], i))
	}
	return records, nil
}

// Flush is kept for interface parity with embedded stores; the Chroma server
// persists on every write, so there is nothing to do.
func (c *Client) Flush(ctx context.Context) error {
	return nil
}

func recordFromResult(docs []chroma.Document, metas []chroma.DocumentMetadata, i int) domain.EmailRecord {
	record := domain.EmailRecord{}
	if i < len(docs) && docs[i] != nil {
		record.Content = docs[i].ContentString()
	}
	if i >= len(metas) || metas[i] == nil {
		return record
	}
	meta := metas[i]
	if v, ok := meta.GetString(metaMessageID); ok {
		record.MessageID = v
	}
	if v, ok := meta.GetString(metaSubject); ok {
		record.Subject = v
	}
	if v, ok := meta.GetString(metaSentAt); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			record.SentAt = t
		}
	}
	if v, ok := meta.GetBool(metaIsRead); ok {
		record.IsRead = v
	}
	if v, ok := meta.GetBool(metaIsVectorized); ok {
		record.IsVectorized = v
	}
	return record
}
