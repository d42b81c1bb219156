package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "me", cfg.GmailUserID)
	assert.Equal(t, 993, cfg.ImapPort)
	assert.Equal(t, "gmail_emails", cfg.ChromaCollection)
	assert.Equal(t, "auto", cfg.AIProvider)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("IMAP_PORT", "143")
	t.Setenv("CHROMA_COLLECTION", "custom_emails")

	cfg := Load()

	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.Equal(t, 143, cfg.ImapPort)
	assert.Equal(t, "custom_emails", cfg.ChromaCollection)
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("IMAP_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 993, cfg.ImapPort)
}

func TestRequireGoogle(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireGoogle()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)

	cfg.GoogleClientID = "id"
	cfg.GoogleClientSecret = "secret"
	err = cfg.RequireGoogle()
	require.Error(t, err)

	cfg.TokenFile = "/tmp/token.json"
	assert.NoError(t, cfg.RequireGoogle())

	cfg.TokenFile = ""
	cfg.GoogleRefreshToken = "1//refresh"
	assert.NoError(t, cfg.RequireGoogle())
}

func TestRequireImap(t *testing.T) {
	cfg := &Config{ImapServer: "imap.example.com", ImapUsername: "user"}
	err := cfg.RequireImap()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingConfig)

	cfg.ImapPassword = "pass"
	assert.NoError(t, cfg.RequireImap())
}

func TestRequireEmbedding(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireEmbedding(), ErrMissingConfig)

	cfg.GeminiAPIKey = "key"
	assert.NoError(t, cfg.RequireEmbedding())
}
