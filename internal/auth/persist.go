package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// TokenPersister abstracts wherever credentials are externally persisted.
// The transport and CLI only ever talk to this interface.
type TokenPersister interface {
	Save(creds *fantasy.Credentials) error
	Load() (*fantasy.Credentials, error)
	Clear() error
}

// openKeyring is a package-level seam so tests can substitute an in-memory
// keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

// SetOpenKeyring replaces the keyring opener for testing. The returned
// function restores the original.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn

	return func() { openKeyring = original }
}

const keyringItemKey = "credentials"

// KeyringStore persists credentials in the OS keyring (falling back to the
// backends keyring.Open negotiates).
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the keyring for the given service name.
func NewKeyringStore(serviceName string) (*KeyringStore, error) {
	ring, err := openKeyring(keyring.Config{ServiceName: serviceName})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}

	return &KeyringStore{ring: ring}, nil
}

// Save implements TokenPersister.Save.
func (s *KeyringStore) Save(creds *fantasy.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	err = s.ring.Set(keyring.Item{Key: keyringItemKey, Data: data})
	if err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}

	return nil
}

// Load implements TokenPersister.Load. A missing entry returns (nil, nil).
func (s *KeyringStore) Load() (*fantasy.Credentials, error) {
	item, err := s.ring.Get(keyringItemKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds fantasy.Credentials

	err = json.Unmarshal(item.Data, &creds)
	if err != nil {
		return nil, fmt.Errorf("decoding credentials: %w", err)
	}

	return &creds, nil
}

// Clear implements TokenPersister.Clear.
func (s *KeyringStore) Clear() error {
	err := s.ring.Remove(keyringItemKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing credentials: %w", err)
	}

	return nil
}
