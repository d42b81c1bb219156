package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	emailUsecase "mailrag-backend/internal/email/usecase"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// GmailNotification is the payload Gmail publishes on the watch topic.
type GmailNotification struct {
	EmailAddress string `json:"emailAddress"`
	HistoryID    uint64 `json:"historyId"`
}

// Service listens on the Gmail watch Pub/Sub subscription and triggers an
// incremental ingest for every mailbox update.
type Service struct {
	pubsubClient  *pubsub.Client
	ingestUsecase emailUsecase.IngestUsecase
	topicName     string
	subName       string
	// Deduplication: skip notifications whose historyId was already handled.
	// Receive delivers messages from multiple goroutines, so access goes
	// through mu.
	mu            sync.Mutex
	lastHistoryID uint64
}

func NewService(projectID, topicName string, ingestUsecase emailUsecase.IngestUsecase, credentialsFile string) (*Service, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Service{
		pubsubClient:  client,
		ingestUsecase: ingestUsecase,
		topicName:     topicName,
		subName:       topicName + "-sub", // Convention: topic-sub
	}, nil
}

// Start blocks, receiving watch notifications until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	log.Printf("[PubSub] Starting watch service with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		return fmt.Errorf("error checking subscription existence: %w", err)
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			return fmt.Errorf("error checking topic existence: %w", err)
		}
		if !topicExists {
			return fmt.Errorf("topic %s does not exist, cannot create subscription", s.topicName)
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		log.Printf("[PubSub] Created subscription: %s", s.subName)
	}

	log.Printf("[PubSub] Listening for messages on subscription: %s", s.subName)
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
}

func (s *Service) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var notification GmailNotification
	if err := json.Unmarshal(msg.Data, &notification); err != nil {
		log.Printf("[PubSub] Failed to unmarshal notification: %v", err)
		return
	}

	s.mu.Lock()
	if notification.HistoryID <= s.lastHistoryID {
		s.mu.Unlock()
		log.Printf("[PubSub] Skipping already-processed historyId %d", notification.HistoryID)
		return
	}
	s.lastHistoryID = notification.HistoryID
	s.mu.Unlock()

	log.Printf("[PubSub] Mailbox update for %s (historyId: %d), ingesting new messages", notification.EmailAddress, notification.HistoryID)

	// The notification does not say which messages changed, so ingest the
	// recent window; sync history keeps already-persisted messages out.
	count, err := s.ingestUsecase.IngestNew(ctx, "newer_than:1d", 0)
	if err != nil {
		log.Printf("[PubSub] Incremental ingest failed: %v", err)
		return
	}
	log.Printf("[PubSub] Ingested %d new messages", count)
}
