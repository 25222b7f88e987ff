package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/common"
)

const (
	serviceName = "housers"
	tokensKey   = "session"
)

// OpenKeyring opens the OS keyring, falling back to an encrypted file under
// fileDir on systems without one.
func OpenKeyring(fileDir string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("housers-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// TokenStore persists the backend session between runs.
type TokenStore interface {
	Save(t backend.Tokens) error
	// Load returns common.ErrNoSession when nothing is stored.
	Load() (*backend.Tokens, error)
	Clear() error
}

// KeyringStore keeps tokens as one JSON item in a keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

var _ TokenStore = (*KeyringStore)(nil)

func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

func (s *KeyringStore) Save(t backend.Tokens) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	if err := s.ring.Set(keyring.Item{Key: tokensKey, Data: data, Label: "Housers session"}); err != nil {
		return fmt.Errorf("setting credential %q: %w", tokensKey, err)
	}
	return nil
}

func (s *KeyringStore) Load() (*backend.Tokens, error) {
	item, err := s.ring.Get(tokensKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, common.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("getting credential %q: %w", tokensKey, err)
	}
	var t backend.Tokens
	if err := json.Unmarshal(item.Data, &t); err != nil {
		return nil, fmt.Errorf("decoding credential %q: %w", tokensKey, err)
	}
	return &t, nil
}

func (s *KeyringStore) Clear() error {
	err := s.ring.Remove(tokensKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", tokensKey, err)
	}
	return nil
}
