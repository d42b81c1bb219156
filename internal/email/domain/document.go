package domain

import (
	"errors"
	"time"
)

// ErrNoMoreMessages is returned by a message iterator once the mailbox
// provider has no further pages.
var ErrNoMoreMessages = errors.New("no more messages")

// Document is the shaped form of a single mailbox message, ready for
// ingestion. Shaping is deterministic: the same raw message always produces
// the same document.
type Document struct {
	ID       string
	ThreadID string
	Subject  string
	Sender   string
	Snippet  string
	Text     string
	SentAt   time.Time
	IsRead   bool
}

// Record converts the document into its persisted form.
func (d Document) Record() EmailRecord {
	return EmailRecord{
		MessageID: d.ID,
		Subject:   d.Subject,
		Content:   d.Text,
		SentAt:    d.SentAt,
		IsRead:    d.IsRead,
	}
}
