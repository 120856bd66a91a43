package fwclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.True(t, fantasy.IsConfiguration(err))
	assert.ErrorIs(t, err, fantasy.ErrConfigRequired)
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trailing slash", input: "https://api.example.com/fantasy/v2/", expected: "https://api.example.com/fantasy/v2"},
		{name: "missing scheme", input: "api.example.com/fantasy/v2", expected: "https://api.example.com/fantasy/v2"},
		{name: "http preserved", input: "http://localhost:8080", expected: "http://localhost:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &fantasy.Config{
				ConsumerKey:    "key",
				ConsumerSecret: "secret",
				BaseURL:        tt.input,
				SignedRequests: true,
			}

			_, err := New(config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, config.BaseURL)
		})
	}
}

func TestNewSigned(t *testing.T) {
	client, err := NewSigned("key", "secret")
	require.NoError(t, err)
	assert.Nil(t, client.Credentials())
}

func TestNewSigned_MissingKey(t *testing.T) {
	_, err := NewSigned("", "secret")
	require.Error(t, err)
	assert.True(t, fantasy.IsConfiguration(err))
}

func TestNewWithCredentials(t *testing.T) {
	creds := &fantasy.Credentials{AccessToken: "tok"}

	client, err := NewWithCredentials("key", "secret", "http://127.0.0.1:8712/callback", creds)
	require.NoError(t, err)
	require.NotNil(t, client.Credentials())
	assert.Equal(t, "tok", client.Credentials().AccessToken)
}
