package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

func TestNewTokenManager_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   *TokenConfig
		sentinel error
	}{
		{name: "nil config", config: nil, sentinel: fantasy.ErrConfigRequired},
		{name: "missing key", config: &TokenConfig{ConsumerSecret: "secret"}, sentinel: fantasy.ErrConsumerKeyRequired},
		{name: "missing secret", config: &TokenConfig{ConsumerKey: "key"}, sentinel: fantasy.ErrConsumerSecretRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenManager(tt.config)
			require.Error(t, err)
			assert.True(t, fantasy.IsConfiguration(err))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestTokenManager_BuildAuthorizationURL(t *testing.T) {
	t.Parallel()

	manager, err := NewTokenManager(&TokenConfig{
		ConsumerKey:    "my-key",
		ConsumerSecret: "my-secret",
		RedirectURI:    "http://127.0.0.1:8712/callback",
		AuthURL:        "https://login.example.com/oauth2/authorize",
	})
	require.NoError(t, err)

	rawURL, err := manager.BuildAuthorizationURL("state-123", "")
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "/oauth2/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "my-key", query.Get("client_id"))
	assert.Equal(t, "http://127.0.0.1:8712/callback", query.Get("redirect_uri"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "en-us", query.Get("language"))
	assert.Equal(t, "state-123", query.Get("state"))
}

func TestTokenManager_BuildAuthorizationURL_NoRedirectURI(t *testing.T) {
	t.Parallel()

	manager, err := NewTokenManager(&TokenConfig{ConsumerKey: "key", ConsumerSecret: "secret"})
	require.NoError(t, err)

	_, err = manager.BuildAuthorizationURL("", "")
	require.Error(t, err)
	assert.True(t, fantasy.IsConfiguration(err))
	assert.ErrorIs(t, err, fantasy.ErrRedirectURIRequired)
}

func TestTokenManager_ExchangeCode(t *testing.T) {
	t.Parallel()

	var captured struct {
		username string
		password string
		form     url.Values
	}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		username, password, ok := request.BasicAuth()
		require.True(t, ok)

		captured.username = username
		captured.password = password

		require.NoError(t, request.ParseForm())
		captured.form = request.PostForm

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"access_token": "new-access",
			"token_type": "bearer",
			"expires_in": 3600,
			"refresh_token": "new-refresh",
			"subject_id": "subject-1"
		}`))
	}))
	defer server.Close()

	manager, err := NewTokenManager(&TokenConfig{
		ConsumerKey:    "my-key",
		ConsumerSecret: "my-secret",
		RedirectURI:    "oob",
		TokenURL:       server.URL,
		HTTPClient:     server.Client(),
	})
	require.NoError(t, err)

	before := time.Now()

	creds, err := manager.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)

	assert.Equal(t, "my-key", captured.username)
	assert.Equal(t, "my-secret", captured.password)
	assert.Equal(t, "authorization_code", captured.form.Get("grant_type"))
	assert.Equal(t, "auth-code", captured.form.Get("code"))
	assert.Equal(t, "oob", captured.form.Get("redirect_uri"))

	assert.Equal(t, "new-access", creds.AccessToken)
	assert.Equal(t, "bearer", creds.TokenType)
	assert.Equal(t, "new-refresh", creds.RefreshToken)
	assert.Equal(t, "subject-1", creds.SubjectID)
	assert.WithinDuration(t, before.Add(time.Hour), creds.ExpiresAt, 5*time.Second)
}

func TestTokenManager_Refresh(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		assert.Equal(t, "refresh_token", request.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", request.PostForm.Get("refresh_token"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"access_token":"rotated","token_type":"bearer","expires_in":3600,"refresh_token":"rotated-refresh"}`))
	}))
	defer server.Close()

	manager, err := NewTokenManager(&TokenConfig{
		ConsumerKey:    "my-key",
		ConsumerSecret: "my-secret",
		RedirectURI:    "oob",
		TokenURL:       server.URL,
		HTTPClient:     server.Client(),
	})
	require.NoError(t, err)

	creds, err := manager.Refresh(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "rotated", creds.AccessToken)
	assert.Equal(t, "rotated-refresh", creds.RefreshToken)
}

func TestTokenManager_Refresh_NoRedirectURI(t *testing.T) {
	t.Parallel()

	manager, err := NewTokenManager(&TokenConfig{ConsumerKey: "key", ConsumerSecret: "secret"})
	require.NoError(t, err)

	_, err = manager.Refresh(context.Background(), "token")
	require.Error(t, err)
	assert.True(t, fantasy.IsConfiguration(err))
	assert.ErrorIs(t, err, fantasy.ErrRedirectURIRequired)
}

func TestTokenManager_ExchangeCode_ErrorBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"error":"invalid_grant","error_description":"code expired"}`))
	}))
	defer server.Close()

	manager, err := NewTokenManager(&TokenConfig{
		ConsumerKey:    "my-key",
		ConsumerSecret: "my-secret",
		RedirectURI:    "oob",
		TokenURL:       server.URL,
		HTTPClient:     server.Client(),
	})
	require.NoError(t, err)

	_, err = manager.ExchangeCode(context.Background(), "stale-code")
	require.Error(t, err)
	assert.True(t, fantasy.IsAuthentication(err))
	assert.Contains(t, err.Error(), "invalid_grant: code expired")
}

func TestTokenManager_IsExpired(t *testing.T) {
	t.Parallel()

	manager, err := NewTokenManager(&TokenConfig{ConsumerKey: "key", ConsumerSecret: "secret"})
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	manager.now = func() time.Time { return now }

	tests := []struct {
		name     string
		creds    *fantasy.Credentials
		buffer   time.Duration
		expected bool
	}{
		{name: "nil credentials", creds: nil, expected: true},
		{name: "empty token", creds: &fantasy.Credentials{}, expected: true},
		{
			name:     "no expiry recorded",
			creds:    &fantasy.Credentials{AccessToken: "tok"},
			expected: false,
		},
		{
			name:     "well before expiry",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)},
			buffer:   time.Minute,
			expected: false,
		},
		{
			name:     "inside buffer",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(30 * time.Second)},
			buffer:   time.Minute,
			expected: true,
		},
		{
			name:     "already expired",
			creds:    &fantasy.Credentials{AccessToken: "tok", ExpiresAt: now.Add(-time.Hour)},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, manager.IsExpired(tt.creds, tt.buffer))
		})
	}
}

func TestTokenManager_TimeUntilExpiry(t *testing.T) {
	t.Parallel()

	manager, err := NewTokenManager(&TokenConfig{ConsumerKey: "key", ConsumerSecret: "secret"})
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	manager.now = func() time.Time { return now }

	assert.Equal(t, time.Hour, manager.TimeUntilExpiry(&fantasy.Credentials{ExpiresAt: now.Add(time.Hour)}))
	assert.Negative(t, manager.TimeUntilExpiry(&fantasy.Credentials{ExpiresAt: now.Add(-time.Minute)}))
	assert.Zero(t, manager.TimeUntilExpiry(nil))
}
