package imap

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippetCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n  b\t\tc"))
}

func TestSnippetTruncatesOnRuneBoundary(t *testing.T) {
	text := strings.Repeat("ü", 200)

	out := snippet(text)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("ü", 120), out)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, time.Unix(0, 0).UTC(), normalizeDate(time.Time{}))

	sent := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, sent.UTC(), normalizeDate(sent))
}
