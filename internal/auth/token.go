package auth

import (
	"sync"
	"time"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// CredentialStore holds the transport's current bearer credentials. Reads and
// writes swap the whole value so no caller ever observes a partially updated
// credential pair.
type CredentialStore struct {
	mu    sync.RWMutex
	creds *fantasy.Credentials
}

// NewCredentialStore creates an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{}
}

// Get returns the current credentials or nil.
func (s *CredentialStore) Get() *fantasy.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creds
}

// Set replaces the credentials wholesale.
func (s *CredentialStore) Set(creds *fantasy.Credentials) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = creds
}

// Clear removes the credentials.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.creds = nil
}

// Valid reports whether creds carries a usable bearer token with the given
// expiry buffer.
func Valid(creds *fantasy.Credentials, buffer time.Duration) bool {
	if creds == nil || creds.AccessToken == "" {
		return false
	}

	if creds.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(buffer).Before(creds.ExpiresAt)
}
