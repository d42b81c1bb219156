package gmail

import (
	"context"
	"fmt"
	"log"
	"time"

	"mailrag-backend/internal/email/domain"
	"mailrag-backend/internal/email/usecase"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// TokenUpdateFunc handles refreshed OAuth tokens, typically by persisting them
// through a credential store.
type TokenUpdateFunc func(*oauth2.Token) error

// Service reads a Gmail mailbox through the Gmail API.
type Service struct {
	svc    *gmail.Service
	userID string
}

type notifyTokenSource struct {
	src      oauth2.TokenSource
	current  *oauth2.Token
	callback TokenUpdateFunc
}

func (s *notifyTokenSource) Token() (*oauth2.Token, error) {
	t, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if s.callback != nil && s.current.AccessToken != t.AccessToken {
		s.current = t
		if err := s.callback(t); err != nil {
			log.Printf("[Gmail] failed to persist refreshed token: %v", err)
		}
	}
	return t, nil
}

// NewService creates a Gmail service using the given OAuth token. The token is
// refreshed on expiry through the standard flow; onTokenRefresh is invoked
// whenever a new access token is obtained.
func NewService(ctx context.Context, clientID, clientSecret, userID string, token *oauth2.Token, onTokenRefresh TokenUpdateFunc) (*Service, error) {
	// Force an initial refresh when we only hold a refresh token.
	if token.AccessToken == "" && token.RefreshToken != "" {
		token.Expiry = time.Now()
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
	}

	wrappedSource := &notifyTokenSource{
		src:      conf.TokenSource(ctx, token),
		current:  token,
		callback: onTokenRefresh,
	}

	client := oauth2.NewClient(ctx, wrappedSource)
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}

	return &Service{svc: srv, userID: userID}, nil
}

// Messages returns an iterator over full message payloads matching the Gmail
// search query (empty matches everything). Pages are followed transparently;
// only the current page of message ids is held in memory.
func (s *Service) Messages(ctx context.Context, query string, pageSize int64) usecase.MessageIterator {
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 100
	}
	return &messageIterator{svc: s.svc, userID: s.userID, query: query, pageSize: pageSize}
}

// Watch registers the mailbox for push notifications on a Pub/Sub topic and
// returns the current history id.
func (s *Service) Watch(ctx context.Context, topicResource string) (uint64, error) {
	resp, err := s.svc.Users.Watch(s.userID, &gmail.WatchRequest{
		TopicName: topicResource,
		LabelIds:  []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to watch mailbox: %w", err)
	}
	return resp.HistoryId, nil
}

// Profile returns the email address of the authenticated mailbox.
func (s *Service) Profile(ctx context.Context) (string, error) {
	profile, err := s.svc.Users.GetProfile(s.userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to get profile: %w", err)
	}
	return profile.EmailAddress, nil
}

type messageIterator struct {
	svc       *gmail.Service
	userID    string
	query     string
	pageSize  int64
	pageToken string
	started   bool
	pending   []*gmail.Message
}

func (it *messageIterator) Next(ctx context.Context) (domain.Document, error) {
	for len(it.pending) == 0 {
		if it.started && it.pageToken == "" {
			return domain.Document{}, domain.ErrNoMoreMessages
		}

		list := it.svc.Users.Messages.List(it.userID).MaxResults(it.pageSize).Context(ctx)
		if it.query != "" {
			list = list.Q(it.query)
		}
		if it.pageToken != "" {
			list = list.PageToken(it.pageToken)
		}

		resp, err := list.Do()
		if err != nil {
			return domain.Document{}, fmt.Errorf("unable to list messages: %w", err)
		}
		it.started = true
		it.pageToken = resp.NextPageToken
		it.pending = resp.Messages
	}

	meta := it.pending[0]
	it.pending = it.pending[1:]

	full, err := it.svc.Users.Messages.Get(it.userID, meta.Id).Format("full").Context(ctx).Do()
	if err != nil {
		return domain.Document{}, fmt.Errorf("unable to retrieve message %s: %w", meta.Id, err)
	}
	return usecase.Shape(full), nil
}
