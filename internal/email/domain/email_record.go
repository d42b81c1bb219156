package domain

import "time"

// EmailRecord is the persisted form of a mailbox message. MessageID is the
// natural key; the repository derives the storage key from it, callers never
// build storage keys themselves.
type EmailRecord struct {
	MessageID    string    `json:"message_id"`
	Subject      string    `json:"subject"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sent_at"`
	IsRead       bool      `json:"is_read"`
	IsVectorized bool      `json:"is_vectorized"`
}

// Preview returns a short plain-text preview of the record content, used when
// formatting retrieval results. Truncation happens on rune boundaries so
// multi-byte text stays valid.
func (r EmailRecord) Preview() string {
	runes := []rune(r.Content)
	if len(runes) > 200 {
		return string(runes[:200]) + "..."
	}
	return r.Content
}
