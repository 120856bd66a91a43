package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fantasywire/fantasy-go/internal/constants"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// TokenConfig configures a TokenManager.
type TokenConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	// RedirectURI is required for BuildAuthorizationURL, ExchangeCode, and
	// Refresh; its absence is a configuration error, never a network error.
	RedirectURI string
	// AuthURL and TokenURL default to the production endpoints.
	AuthURL  string
	TokenURL string
	// HTTPClient overrides the default retrying client, mainly for tests.
	HTTPClient *http.Client
}

// TokenManager exchanges authorization grants for bearer credentials and
// refreshes them. It holds no mutable session state beyond the identifiers
// given at construction; every exchange returns a new Credentials value.
type TokenManager struct {
	consumerKey    string
	consumerSecret string
	redirectURI    string
	authURL        string
	tokenURL       string
	httpClient     *http.Client

	now func() time.Time
}

// tokenEnvelope is the token endpoint's response shape.
type tokenEnvelope struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	SubjectID    string `json:"subject_id"`
}

// NewTokenManager creates a token manager for the given consumer identity.
func NewTokenManager(config *TokenConfig) (*TokenManager, error) {
	if config == nil {
		return nil, &fantasy.ConfigurationError{Detail: "token config is required", Err: fantasy.ErrConfigRequired}
	}

	if config.ConsumerKey == "" {
		return nil, &fantasy.ConfigurationError{Detail: "consumer key must not be empty", Err: fantasy.ErrConsumerKeyRequired}
	}

	if config.ConsumerSecret == "" {
		return nil, &fantasy.ConfigurationError{Detail: "consumer secret must not be empty", Err: fantasy.ErrConsumerSecretRequired}
	}

	authURL := config.AuthURL
	if authURL == "" {
		authURL = constants.DefaultAuthURL
	}

	tokenURL := config.TokenURL
	if tokenURL == "" {
		tokenURL = constants.DefaultTokenURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = newTokenHTTPClient()
	}

	return &TokenManager{
		consumerKey:    config.ConsumerKey,
		consumerSecret: config.ConsumerSecret,
		redirectURI:    config.RedirectURI,
		authURL:        authURL,
		tokenURL:       tokenURL,
		httpClient:     httpClient,
		now:            time.Now,
	}, nil
}

// newTokenHTTPClient builds the default HTTP client for the token endpoint,
// retrying transient failures.
func newTokenHTTPClient() *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.HTTPClient.Timeout = constants.ShortHTTPTimeout
	retryClient.Logger = nil

	return retryClient.StandardClient()
}

// BuildAuthorizationURL returns the URL a user must visit to authorize the
// application. state is echoed back on the callback; locale defaults to
// "en-us".
func (m *TokenManager) BuildAuthorizationURL(state, locale string) (string, error) {
	if m.redirectURI == "" {
		return "", &fantasy.ConfigurationError{Detail: "redirect URI must be configured to build an authorization URL", Err: fantasy.ErrRedirectURIRequired}
	}

	if locale == "" {
		locale = constants.DefaultLocale
	}

	query := url.Values{}
	query.Set("client_id", m.consumerKey)
	query.Set("redirect_uri", m.redirectURI)
	query.Set("response_type", "code")
	query.Set("language", locale)

	if state != "" {
		query.Set("state", state)
	}

	return m.authURL + "?" + query.Encode(), nil
}

// ExchangeCode exchanges an authorization code for bearer credentials.
func (m *TokenManager) ExchangeCode(ctx context.Context, code string) (*fantasy.Credentials, error) {
	if m.redirectURI == "" {
		return nil, &fantasy.ConfigurationError{Detail: "redirect URI must be configured to exchange an authorization code", Err: fantasy.ErrRedirectURIRequired}
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.redirectURI)

	return m.requestToken(ctx, form)
}

// Refresh exchanges a refresh token for a new credential pair. The previous
// credentials are left untouched.
func (m *TokenManager) Refresh(ctx context.Context, refreshToken string) (*fantasy.Credentials, error) {
	if m.redirectURI == "" {
		return nil, &fantasy.ConfigurationError{Detail: "redirect URI must be configured to refresh credentials", Err: fantasy.ErrRedirectURIRequired}
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("redirect_uri", m.redirectURI)

	return m.requestToken(ctx, form)
}

// IsExpired reports whether creds will be expired within buffer from now.
func (m *TokenManager) IsExpired(creds *fantasy.Credentials, buffer time.Duration) bool {
	if creds == nil || creds.AccessToken == "" {
		return true
	}

	if creds.ExpiresAt.IsZero() {
		return false
	}

	return !m.now().Add(buffer).Before(creds.ExpiresAt)
}

// TimeUntilExpiry returns how long until creds expires. Negative when the
// credentials are already expired.
func (m *TokenManager) TimeUntilExpiry(creds *fantasy.Credentials) time.Duration {
	if creds == nil {
		return 0
	}

	return creds.ExpiresAt.Sub(m.now())
}

// requestToken POSTs a form to the token endpoint with HTTP Basic auth built
// from the consumer pair. Transport and decode failures are wrapped into the
// single authentication-error taxonomy so callers see one failure kind.
func (m *TokenManager) requestToken(ctx context.Context, form url.Values) (*fantasy.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &fantasy.AuthenticationError{Detail: "building token request", Err: err}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.consumerKey, m.consumerSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &fantasy.AuthenticationError{Detail: "token request failed", Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &fantasy.AuthenticationError{Detail: "reading token response", Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= 300 {
		return nil, &fantasy.AuthenticationError{
			Detail: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode),
			Body:   fantasy.ErrorDetail(body),
		}
	}

	var envelope tokenEnvelope

	err = json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, &fantasy.AuthenticationError{Detail: "parsing token response", Err: err}
	}

	return &fantasy.Credentials{
		AccessToken:  envelope.AccessToken,
		TokenType:    envelope.TokenType,
		RefreshToken: envelope.RefreshToken,
		ExpiresAt:    m.now().Add(time.Duration(envelope.ExpiresIn) * time.Second),
		SubjectID:    envelope.SubjectID,
	}, nil
}
