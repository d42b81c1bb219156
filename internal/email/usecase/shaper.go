package usecase

import (
	"encoding/base64"
	"mime"
	"time"

	"mailrag-backend/internal/email/domain"

	"google.golang.org/api/gmail/v1"
)

// Shape converts a raw Gmail message into its ingestible document form. It is
// a pure function: the same message always shapes to the same document, with
// SentAt echoing the message's own internalDate.
//
// Body selection mirrors the provider payload layout: a top-level body is
// preferred, otherwise the first text/plain part of a multipart payload, else
// the text stays empty and the orchestrator drops the message.
func Shape(msg *gmail.Message) domain.Document {
	doc := domain.Document{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Snippet:  msg.Snippet,
		SentAt:   time.UnixMilli(msg.InternalDate).UTC(),
		IsRead:   !hasLabel(msg.LabelIds, "UNREAD"),
	}
	if msg.Payload == nil {
		return doc
	}

	doc.Subject = decodeHeader(getHeader(msg.Payload.Headers, "Subject"))
	doc.Sender = decodeHeader(getHeader(msg.Payload.Headers, "From"))
	doc.Text = extractPlainBody(msg.Payload)
	return doc
}

// decodeHeader resolves RFC 2047 encoded-word headers to plain text. Values
// that fail to decode are returned as-is.
func decodeHeader(value string) string {
	if value == "" {
		return ""
	}
	decoder := mime.WordDecoder{}
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

func extractPlainBody(payload *gmail.MessagePart) string {
	if payload.Body != nil && payload.Body.Data != "" {
		if data, err := decodeBase64URL(payload.Body.Data); err == nil {
			return string(data)
		}
	}

	for _, part := range payload.Parts {
		if part.MimeType != "text/plain" {
			continue
		}
		if part.Body == nil || part.Body.Data == "" {
			continue
		}
		if data, err := decodeBase64URL(part.Body.Data); err == nil {
			return string(data)
		}
	}
	return ""
}

// decodeBase64URL handles both padded and unpadded base64url body data; the
// Gmail API omits padding.
func decodeBase64URL(data string) ([]byte, error) {
	if decoded, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return decoded, nil
	}
	return base64.URLEncoding.DecodeString(data)
}

func getHeader(headers []*gmail.MessagePartHeader, name string) string {
	for _, header := range headers {
		if header.Name == name {
			return header.Value
		}
	}
	return ""
}

func hasLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
