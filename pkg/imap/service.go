package imap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mailrag-backend/internal/email/domain"
	"mailrag-backend/internal/email/usecase"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"
)

// Service reads a mailbox over IMAP, exposing the same iterator contract as
// the Gmail provider so ingestion does not care which one it talks to.
type Service struct {
	server   string
	port     int
	username string
	password string
	mailbox  string
}

func NewService(server string, port int, username, password string) *Service {
	return &Service{
		server:   server,
		port:     port,
		username: username,
		password: password,
		mailbox:  "INBOX",
	}
}

// Messages searches the mailbox (empty query matches everything) and returns
// an iterator over parsed messages. Messages are fetched one batch of
// pageSize at a time.
func (s *Service) Messages(ctx context.Context, query string, pageSize int64) usecase.MessageIterator {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &messageIterator{service: s, query: query, pageSize: int(pageSize)}
}

type messageIterator struct {
	service  *Service
	query    string
	pageSize int

	conn    *client.Client
	uids    []uint32
	pending []domain.Document
	started bool
	done    bool
}

func (it *messageIterator) Next(ctx context.Context) (domain.Document, error) {
	if !it.started {
		if err := it.connect(); err != nil {
			return domain.Document{}, err
		}
		it.started = true
	}

	for len(it.pending) == 0 {
		if it.done || len(it.uids) == 0 {
			it.close()
			return domain.Document{}, domain.ErrNoMoreMessages
		}
		if err := it.fetchBatch(); err != nil {
			it.close()
			return domain.Document{}, err
		}
	}

	doc := it.pending[0]
	it.pending = it.pending[1:]
	return doc, nil
}

func (it *messageIterator) connect() error {
	addr := fmt.Sprintf("%s:%d", it.service.server, it.service.port)
	conn, err := client.DialTLS(addr, nil)
	if err != nil {
		return fmt.Errorf("unable to connect to %s: %w", addr, err)
	}
	if err := conn.Login(it.service.username, it.service.password); err != nil {
		conn.Logout()
		return fmt.Errorf("IMAP login failed: %w", err)
	}
	if _, err := conn.Select(it.service.mailbox, true); err != nil {
		conn.Logout()
		return fmt.Errorf("unable to select %s: %w", it.service.mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	if it.query != "" {
		criteria.Text = []string{it.query}
	}
	uids, err := conn.Search(criteria)
	if err != nil {
		conn.Logout()
		return fmt.Errorf("IMAP search failed: %w", err)
	}

	it.conn = conn
	it.uids = uids
	return nil
}

func (it *messageIterator) fetchBatch() error {
	batch := it.uids
	if len(batch) > it.pageSize {
		batch = batch[:it.pageSize]
	}
	it.uids = it.uids[len(batch):]
	if len(it.uids) == 0 {
		it.done = true
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(batch...)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchFlags, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, len(batch))
	errCh := make(chan error, 1)
	go func() {
		errCh <- it.conn.Fetch(seqset, items, messages)
	}()

	for msg := range messages {
		doc := convertMessage(msg, section)
		it.pending = append(it.pending, doc)
	}
	return <-errCh
}

func (it *messageIterator) close() {
	if it.conn != nil {
		it.conn.Logout()
		it.conn = nil
	}
}

func convertMessage(msg *imap.Message, section *imap.BodySectionName) domain.Document {
	doc := domain.Document{
		ID:     fmt.Sprintf("uid-%d", msg.Uid),
		IsRead: hasFlag(msg.Flags, imap.SeenFlag),
	}
	if msg.Envelope != nil {
		doc.Subject = msg.Envelope.Subject
		doc.SentAt = normalizeDate(msg.Envelope.Date)
		if id := strings.Trim(msg.Envelope.MessageId, "<>"); id != "" {
			doc.ID = id
		}
		if len(msg.Envelope.From) > 0 {
			doc.Sender = msg.Envelope.From[0].Address()
		}
	}

	if body := msg.GetBody(section); body != nil {
		doc.Text = extractPlainText(body)
	}
	if doc.Text != "" {
		doc.Snippet = snippet(doc.Text)
	}
	return doc
}

// extractPlainText walks the MIME structure and returns the first text/plain
// inline part.
func extractPlainText(r io.Reader) string {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return ""
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return ""
		}
		if err != nil {
			return ""
		}
		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil || contentType != "text/plain" {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > 120 {
		return string(runes[:120])
	}
	return text
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}

// A zero envelope date can slip through on malformed mail; normalize it so
// shaped output stays deterministic.
func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return t.UTC()
}
