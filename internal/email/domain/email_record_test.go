package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreviewShortContentUnchanged(t *testing.T) {
	record := EmailRecord{Content: "short body"}
	assert.Equal(t, "short body", record.Preview())
}

func TestPreviewTruncatesLongContent(t *testing.T) {
	record := EmailRecord{Content: strings.Repeat("a", 500)}

	preview := record.Preview()
	assert.Equal(t, strings.Repeat("a", 200)+"...", preview)
}

func TestPreviewKeepsMultiByteTextValid(t *testing.T) {
	// 300 two-byte runes; a byte-offset cut at 200 would split one in half.
	record := EmailRecord{Content: strings.Repeat("é", 300)}

	preview := record.Preview()
	assert.True(t, utf8.ValidString(preview))
	assert.Equal(t, strings.Repeat("é", 200)+"...", preview)
}
