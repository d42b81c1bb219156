package gmail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mailrag-backend/pkg/config"
	"mailrag-backend/pkg/utils/crypto"

	"golang.org/x/oauth2"
)

// CredentialStore persists OAuth tokens between runs. When a secret is
// configured the stored token is sealed at rest.
type CredentialStore struct {
	file   string
	secret string
}

func NewCredentialStore(file, secret string) *CredentialStore {
	return &CredentialStore{file: file, secret: secret}
}

// Load reads the stored token; a missing file yields (nil, nil).
func (s *CredentialStore) Load() (*oauth2.Token, error) {
	if s.file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read token file: %w", err)
	}

	payload := string(data)
	if s.secret != "" {
		payload, err = crypto.Decrypt(payload, s.secret)
		if err != nil {
			return nil, fmt.Errorf("unable to decrypt token file: %w", err)
		}
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(payload), &token); err != nil {
		return nil, fmt.Errorf("unable to parse token file: %w", err)
	}
	return &token, nil
}

// Persist writes the token back to disk, sealing it when a secret is set.
func (s *CredentialStore) Persist(token *oauth2.Token) error {
	if s.file == "" {
		return nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	payload := string(data)
	if s.secret != "" {
		payload, err = crypto.Encrypt(payload, s.secret)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.file), 0700); err != nil {
		return fmt.Errorf("unable to create token directory: %w", err)
	}
	return os.WriteFile(s.file, []byte(payload), 0600)
}

// ResolveToken builds the initial OAuth token: the persisted one when a token
// file exists, otherwise a bare refresh token from the environment.
func ResolveToken(cfg *config.Config, store *CredentialStore) (*oauth2.Token, error) {
	if store != nil {
		token, err := store.Load()
		if err != nil {
			return nil, err
		}
		if token != nil {
			return token, nil
		}
	}
	if cfg.GoogleRefreshToken == "" {
		return nil, fmt.Errorf("%w: no stored token and GOOGLE_REFRESH_TOKEN is empty", config.ErrMissingConfig)
	}
	return &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken, TokenType: "Bearer"}, nil
}
