package constants

import "time"

// Upstream endpoints.
const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.fantasywire.com/fantasy/v2"

	// DefaultAuthURL is the user authorization endpoint.
	DefaultAuthURL = "https://login.fantasywire.com/oauth2/authorize"

	// DefaultTokenURL is the token exchange endpoint.
	DefaultTokenURL = "https://login.fantasywire.com/oauth2/token"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second

	// DefaultCallbackTimeout bounds the local authorization callback listener.
	DefaultCallbackTimeout = 5 * time.Minute
)

// Retry and backoff.
const (
	// DefaultRetryMax is the default number of retries after the initial attempt.
	DefaultRetryMax = 3

	// DefaultBackoffBase is the base delay for exponential backoff.
	DefaultBackoffBase = 1 * time.Second

	// DefaultBackoffMax caps the exponential backoff delay.
	DefaultBackoffMax = 30 * time.Second

	// DefaultRetryAfter is assumed when a 429 carries no Retry-After header.
	DefaultRetryAfter = 60 * time.Second

	// ExponentialBackoffBase is the multiplier base for exponential backoff.
	ExponentialBackoffBase = 2
)

// Rate limiting.
const (
	// DefaultRateLimit is the max requests admitted per window.
	DefaultRateLimit = 20

	// DefaultRateWindow is the sliding-window width.
	DefaultRateWindow = 1000 * time.Millisecond
)

// Token lifecycle.
const (
	// TokenExpiryBuffer is subtracted from the token lifetime when deciding
	// whether to refresh, so a token is never used right at its deadline.
	TokenExpiryBuffer = 60 * time.Second
)

// Wire format.
const (
	// FormatParam is the query parameter the upstream requires on every request.
	FormatParam = "format"

	// FormatJSON is the only response format this client speaks.
	FormatJSON = "json"

	// ProtocolVersion is the signed-request protocol version marker.
	ProtocolVersion = "1.0"
)

// Locale defaults.
const (
	// DefaultLocale is used for the authorization page when none is given.
	DefaultLocale = "en-us"
)
