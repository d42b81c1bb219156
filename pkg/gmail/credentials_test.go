package gmail

import (
	"path/filepath"
	"testing"

	"mailrag-backend/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestCredentialStoreRoundtrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token.json")
	store := NewCredentialStore(file, "")

	token := &oauth2.Token{
		AccessToken:  "ya29.test",
		RefreshToken: "1//refresh",
		TokenType:    "Bearer",
	}
	require.NoError(t, store.Persist(token))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
}

func TestCredentialStoreSealedRoundtrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token.json")
	store := NewCredentialStore(file, "passphrase")

	token := &oauth2.Token{RefreshToken: "1//sealed", TokenType: "Bearer"}
	require.NoError(t, store.Persist(token))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "1//sealed", loaded.RefreshToken)

	// Reading with the wrong passphrase must not leak the token.
	wrong := NewCredentialStore(file, "other")
	_, err = wrong.Load()
	assert.Error(t, err)
}

func TestCredentialStoreMissingFile(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "absent.json"), "")

	token, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestResolveTokenPrefersStoredToken(t *testing.T) {
	file := filepath.Join(t.TempDir(), "token.json")
	store := NewCredentialStore(file, "")
	require.NoError(t, store.Persist(&oauth2.Token{RefreshToken: "1//stored"}))

	cfg := &config.Config{GoogleRefreshToken: "1//env"}
	token, err := ResolveToken(cfg, store)
	require.NoError(t, err)
	assert.Equal(t, "1//stored", token.RefreshToken)
}

func TestResolveTokenFallsBackToEnv(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "absent.json"), "")

	cfg := &config.Config{GoogleRefreshToken: "1//env"}
	token, err := ResolveToken(cfg, store)
	require.NoError(t, err)
	assert.Equal(t, "1//env", token.RefreshToken)
	assert.Equal(t, "Bearer", token.TokenType)
}

func TestResolveTokenWithoutAnySourceFails(t *testing.T) {
	store := NewCredentialStore(filepath.Join(t.TempDir(), "absent.json"), "")

	_, err := ResolveToken(&config.Config{}, store)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingConfig)
}
