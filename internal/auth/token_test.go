package auth

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

func TestCredentialStore(t *testing.T) {
	t.Parallel()

	store := NewCredentialStore()
	assert.Nil(t, store.Get())

	creds := &fantasy.Credentials{AccessToken: "tok"}
	store.Set(creds)
	assert.Same(t, creds, store.Get())

	store.Clear()
	assert.Nil(t, store.Get())
}

func TestCredentialStore_ConcurrentSwap(t *testing.T) {
	t.Parallel()

	store := NewCredentialStore()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			store.Set(&fantasy.Credentials{
				AccessToken:  "access-" + strconv.Itoa(i),
				RefreshToken: "refresh-" + strconv.Itoa(i),
			})
		}(i)
	}

	done := make(chan struct{})

	go func() {
		defer close(done)

		// Readers must always see a matched pair, never a torn write.
		for i := 0; i < 1000; i++ {
			creds := store.Get()
			if creds == nil {
				continue
			}

			suffix := creds.AccessToken[len("access-"):]
			assert.Equal(t, "refresh-"+suffix, creds.RefreshToken)
		}
	}()

	wg.Wait()
	<-done
}

func TestValid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		creds    *fantasy.Credentials
		expected bool
	}{
		{name: "nil", creds: nil, expected: false},
		{name: "empty token", creds: &fantasy.Credentials{}, expected: false},
		{name: "no expiry", creds: &fantasy.Credentials{AccessToken: "tok"}, expected: true},
		{
			name:     "future expiry",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)},
			expected: true,
		},
		{
			name:     "inside buffer",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(30 * time.Second)},
			expected: false,
		},
		{
			name:     "expired",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(-time.Hour)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Valid(tt.creds, time.Minute))
		})
	}
}
