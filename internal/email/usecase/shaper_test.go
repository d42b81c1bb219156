package usecase

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/gmail/v1"
)

func encodeBody(text string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(text))
}

func gmailMessage(id, subject, body string) *gmail.Message {
	return &gmail.Message{
		Id:           id,
		ThreadId:     "thread-" + id,
		Snippet:      "snippet of " + id,
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: "Alice <alice@example.com>"},
			},
			Body: &gmail.MessagePartBody{Data: encodeBody(body)},
		},
	}
}

func TestShapeTopLevelBody(t *testing.T) {
	doc := Shape(gmailMessage("msg-1", "Hello", "plain body text"))

	assert.Equal(t, "msg-1", doc.ID)
	assert.Equal(t, "thread-msg-1", doc.ThreadID)
	assert.Equal(t, "Hello", doc.Subject)
	assert.Equal(t, "Alice <alice@example.com>", doc.Sender)
	assert.Equal(t, "plain body text", doc.Text)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), doc.SentAt)
}

func TestShapePrefersFirstTextPlainPart(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-2",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: "Multipart"},
			},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<b>html</b>")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("first plain part")}},
				{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encodeBody("second plain part")}},
			},
		},
	}

	doc := Shape(msg)
	assert.Equal(t, "first plain part", doc.Text)
}

func TestShapeDecodesEncodedWordHeaders(t *testing.T) {
	subject := "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte("Réunion démain")) + "?="
	doc := Shape(gmailMessage("msg-3", subject, "body"))

	assert.Equal(t, "Réunion démain", doc.Subject)
}

func TestShapeEmptyBody(t *testing.T) {
	msg := &gmail.Message{
		Id:           "msg-4",
		InternalDate: 1700000000000,
		Payload: &gmail.MessagePart{
			Headers: []*gmail.MessagePartHeader{{Name: "Subject", Value: "No body"}},
			Parts: []*gmail.MessagePart{
				{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encodeBody("<p>html only</p>")}},
			},
		},
	}

	doc := Shape(msg)
	assert.Empty(t, doc.Text)
}

func TestShapeReadFlag(t *testing.T) {
	msg := gmailMessage("msg-5", "Subject", "body")
	msg.LabelIds = []string{"INBOX", "UNREAD"}
	assert.False(t, Shape(msg).IsRead)

	msg.LabelIds = []string{"INBOX"}
	assert.True(t, Shape(msg).IsRead)
}

func TestShapeIsDeterministic(t *testing.T) {
	msg := gmailMessage("msg-6", "Same", "same body")
	assert.Equal(t, Shape(msg), Shape(msg))
}

func TestShapeHandlesPaddedBase64(t *testing.T) {
	msg := gmailMessage("msg-7", "Padded", "")
	msg.Payload.Body.Data = base64.URLEncoding.EncodeToString([]byte("padded body"))

	assert.Equal(t, "padded body", Shape(msg).Text)
}

func TestShapeNilPayload(t *testing.T) {
	doc := Shape(&gmail.Message{Id: "msg-8", InternalDate: 1700000000000})
	assert.Equal(t, "msg-8", doc.ID)
	assert.Empty(t, doc.Text)
}
