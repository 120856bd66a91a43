// Package http implements the request pipeline: rate-limit admission,
// credential attachment, the network call, and status-driven retry and
// error classification. Every failure leaves this package as exactly one
// typed error from the fantasy package; raw transport errors never escape.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fantasywire/fantasy-go/internal/auth"
	"github.com/fantasywire/fantasy-go/internal/constants"
	"github.com/fantasywire/fantasy-go/internal/ratelimit"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Doer executes a single HTTP round trip. The transport's network call is
// injectable through it so tests and debugging hooks attach cleanly.
type Doer interface {
	Do(req *nethttp.Request) (*nethttp.Response, error)
}

// RefreshFunc exchanges a refresh token for a new credential pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (*fantasy.Credentials, error)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
	// Timeout overrides the client's per-request timeout when positive.
	Timeout time.Duration
	// MaxRetries overrides the client's retry limit when non-nil.
	MaxRetries *int
	// SkipAuth sends the request without credential attachment, for
	// already-signed or anonymous calls.
	SkipAuth bool
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client is the transport. Concurrent requests share the rate limiter and
// the current bearer credentials; credential replacement swaps the whole
// value and concurrent refreshes collapse into one upstream call.
type Client struct {
	baseURL    string
	httpClient Doer
	limiter    *ratelimit.Limiter

	signer          *auth.Signer
	signatureMethod string

	creds        *auth.CredentialStore
	refresh      RefreshFunc
	refreshGroup singleflight.Group
	expiryBuffer time.Duration

	retryMax    int
	backoffBase time.Duration
	backoffMax  time.Duration
	retryable   map[int]bool
	timeout     time.Duration

	userAgent string
	logger    Logger
	debug     bool

	// sleep is a seam so retry tests do not spend wall-clock time.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects the underlying round tripper.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithSigner enables signed-request mode. Signed mode always wins over
// bearer credentials when both are configured.
func WithSigner(signer *auth.Signer, signatureMethod string) Option {
	return func(c *Client) {
		c.signer = signer
		c.signatureMethod = signatureMethod
	}
}

// WithCredentials seeds bearer credentials and an optional refresh callback.
func WithCredentials(creds *fantasy.Credentials, refresh RefreshFunc) Option {
	return func(c *Client) {
		c.creds.Set(creds)
		c.refresh = refresh
	}
}

// WithRateLimit overrides the sliding-window bounds.
func WithRateLimit(maxRequests int, window time.Duration) Option {
	return func(c *Client) {
		c.limiter = ratelimit.New(maxRequests, window)
	}
}

// WithRetryConfig overrides the retry limit and backoff bounds.
func WithRetryConfig(retryMax int, backoffBase, backoffMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = retryMax
		c.backoffBase = backoffBase
		c.backoffMax = backoffMax
	}
}

// WithRetryableStatuses replaces the set of statuses retried with backoff.
func WithRetryableStatuses(statuses ...int) Option {
	return func(c *Client) {
		c.retryable = make(map[int]bool, len(statuses))
		for _, status := range statuses {
			c.retryable[status] = true
		}
	}
}

// WithTimeout sets the default per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// NewClient creates a transport for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL:      baseURL,
		httpClient:   &nethttp.Client{},
		limiter:      ratelimit.New(constants.DefaultRateLimit, constants.DefaultRateWindow),
		creds:        auth.NewCredentialStore(),
		expiryBuffer: constants.TokenExpiryBuffer,
		retryMax:     constants.DefaultRetryMax,
		backoffBase:  constants.DefaultBackoffBase,
		backoffMax:   constants.DefaultBackoffMax,
		retryable: map[int]bool{
			nethttp.StatusInternalServerError: true,
			nethttp.StatusBadGateway:          true,
			nethttp.StatusServiceUnavailable:  true,
			nethttp.StatusGatewayTimeout:      true,
		},
		timeout:   constants.DefaultHTTPTimeout,
		userAgent: "fantasywire-go",
		sleep:     sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Credentials returns the current bearer credentials, or nil.
func (c *Client) Credentials() *fantasy.Credentials {
	return c.creds.Get()
}

// SetCredentials replaces the current bearer credentials wholesale.
func (c *Client) SetCredentials(creds *fantasy.Credentials) {
	c.creds.Set(creds)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// Do executes one logical request through the pipeline: rate-limit wait,
// auth attachment, network call, classification, and retry.
//
//nolint:funlen,gocognit // the retry state machine reads best as one loop
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	retries := c.retryMax
	if req.MaxRetries != nil {
		retries = *req.MaxRetries
	}

	var lastNetErr error

	for attempt := 0; attempt <= retries; attempt++ {
		err := c.limiter.Wait(ctx)
		if err != nil {
			return nil, &fantasy.NetworkError{Err: err}
		}

		fullURL := c.buildURL(req)

		headers := map[string]string{}
		for name, value := range req.Headers {
			headers[name] = value
		}

		if !req.SkipAuth {
			fullURL, err = c.attachAuth(ctx, req.Method, fullURL, headers)
			if err != nil {
				return nil, err
			}
		}

		resp, err := c.roundTrip(ctx, req, fullURL, headers)
		if err != nil {
			// Timeouts and connection failures share the retry path.
			lastNetErr = err

			if attempt < retries {
				backoffErr := c.sleep(ctx, c.backoff(attempt))
				if backoffErr != nil {
					return nil, &fantasy.NetworkError{Err: backoffErr}
				}

				continue
			}

			return nil, &fantasy.NetworkError{Err: lastNetErr}
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp, nil

		case resp.StatusCode == nethttp.StatusTooManyRequests:
			retryAfter := retryAfterDuration(resp.Headers)
			if attempt < retries {
				// Server-provided delay, not the backoff formula.
				sleepErr := c.sleep(ctx, retryAfter)
				if sleepErr != nil {
					return nil, &fantasy.NetworkError{Err: sleepErr}
				}

				continue
			}

			return nil, &fantasy.RateLimitError{RetryAfter: retryAfter, Body: string(resp.Body)}

		case resp.StatusCode == nethttp.StatusUnauthorized:
			// A stale credential will not fix itself by retrying.
			return nil, &fantasy.AuthenticationError{
				Detail: "unauthorized",
				Body:   fantasy.ErrorDetail(resp.Body),
			}

		case resp.StatusCode == nethttp.StatusNotFound:
			return nil, &fantasy.NotFoundError{Path: req.Path}

		case c.retryable[resp.StatusCode]:
			if attempt < retries {
				sleepErr := c.sleep(ctx, c.backoff(attempt))
				if sleepErr != nil {
					return nil, &fantasy.NetworkError{Err: sleepErr}
				}

				continue
			}

			return nil, &fantasy.APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}

		default:
			return nil, &fantasy.APIError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
		}
	}

	return nil, &fantasy.NetworkError{Err: lastNetErr}
}

// DecodeJSON unmarshals a successful response body.
func DecodeJSON(resp *Response, v interface{}) error {
	err := json.Unmarshal(resp.Body, v)
	if err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// buildURL joins base URL, path, and query, always forcing the output-format
// parameter and dropping parameters with empty values.
func (c *Client) buildURL(req *Request) string {
	query := url.Values{}

	for name, values := range req.Query {
		for _, value := range values {
			if value == "" {
				continue
			}

			query.Add(name, value)
		}
	}

	query.Set(constants.FormatParam, constants.FormatJSON)

	return c.baseURL + req.Path + "?" + query.Encode()
}

// attachAuth applies the configured credential strategy. Signed-request mode
// wins over bearer mode when both are configured; this precedence is a
// documented contract, not an accident of code-path order.
func (c *Client) attachAuth(ctx context.Context, method, fullURL string, headers map[string]string) (string, error) {
	if c.signer != nil {
		signedURL, err := c.signer.Sign(method, fullURL, nil, c.signatureMethod)
		if err != nil {
			return "", err
		}

		return signedURL, nil
	}

	creds := c.creds.Get()
	if creds == nil {
		return "", &fantasy.AuthenticationError{
			Detail: "no signer or bearer credentials configured",
			Err:    fantasy.ErrNoCredentials,
		}
	}

	if !auth.Valid(creds, c.expiryBuffer) {
		if c.refresh == nil {
			return "", &fantasy.AuthenticationError{Detail: "credentials expired and no refresh callback configured"}
		}

		refreshed, err := c.refreshCredentials(ctx)
		if err != nil {
			return "", err
		}

		creds = refreshed
	}

	headers["Authorization"] = "Bearer " + creds.AccessToken

	return fullURL, nil
}

// refreshCredentials collapses concurrent refreshes into one upstream call
// and swaps the stored credentials atomically.
func (c *Client) refreshCredentials(ctx context.Context) (*fantasy.Credentials, error) {
	fresh, err, _ := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		current := c.creds.Get()
		if auth.Valid(current, c.expiryBuffer) {
			// Another caller already refreshed.
			return current, nil
		}

		refreshToken := ""
		if current != nil {
			refreshToken = current.RefreshToken
		}

		refreshed, refreshErr := c.refresh(ctx, refreshToken)
		if refreshErr != nil {
			return nil, refreshErr
		}

		c.creds.Set(refreshed)

		if c.debug && c.logger != nil {
			c.logger.Debug("refreshed bearer credentials", map[string]interface{}{
				"expires_at": refreshed.ExpiresAt,
			})
		}

		return refreshed, nil
	})
	if err != nil {
		if fantasy.IsAuthentication(err) || fantasy.IsConfiguration(err) {
			return nil, err
		}

		return nil, &fantasy.AuthenticationError{Detail: "refreshing credentials", Err: err}
	}

	creds, ok := fresh.(*fantasy.Credentials)
	if !ok || creds == nil {
		return nil, &fantasy.AuthenticationError{Detail: "refresh callback returned no credentials"}
	}

	return creds, nil
}

// roundTrip issues one network call with the per-request timeout applied.
func (c *Client) roundTrip(ctx context.Context, req *Request, fullURL string, headers map[string]string) (*Response, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := nethttp.NewRequestWithContext(callCtx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for name, value := range headers {
		httpReq.Header.Set(name, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": httpResp.StatusCode,
		})
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// backoff computes the exponential delay for the given attempt, capped at
// the configured maximum.
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.backoffBase

	for i := 0; i < attempt; i++ {
		delay *= constants.ExponentialBackoffBase
		if delay >= c.backoffMax {
			return c.backoffMax
		}
	}

	if delay > c.backoffMax {
		return c.backoffMax
	}

	return delay
}

// retryAfterDuration reads the server-provided retry delay, defaulting when
// the header is absent or unparseable.
func retryAfterDuration(headers nethttp.Header) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return constants.DefaultRetryAfter
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return constants.DefaultRetryAfter
	}

	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
