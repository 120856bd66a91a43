package fantasy

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrConsumerKeyRequired    = errors.New("consumer key is required")
	ErrConsumerSecretRequired = errors.New("consumer secret is required")
	ErrRedirectURIRequired    = errors.New("redirect URI is required")
	ErrNoCredentials          = errors.New("no credentials configured")
)

// ConfigurationError indicates missing or invalid constructor input. It is
// never retried and surfaces immediately to the caller.
type ConfigurationError struct {
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Detail, e.Err)
	}

	return "configuration error: " + e.Detail
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// AuthenticationError indicates expired or invalid credentials, a failed
// grant or refresh exchange, or a 401 response. The transport never retries
// it; the caller must re-authenticate or fix stored credentials.
type AuthenticationError struct {
	Detail string
	Body   string
	Err    error
}

func (e *AuthenticationError) Error() string {
	msg := "authentication error: " + e.Detail
	if e.Body != "" {
		msg += ": " + e.Body
	}

	return msg
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NotFoundError indicates a 404 response for the named resource path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "resource not found: " + e.Path
}

// RateLimitError indicates a 429 response after exhausting retries.
type RateLimitError struct {
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}

// APIError indicates any other unsuccessful status after exhausting
// applicable retries.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Body)
}

// NetworkError indicates a transport-level failure or timeout after
// exhausting retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError indicates malformed input, e.g. a path parameter attached
// before any segment exists.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Detail
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	notFound := &NotFoundError{}

	return errors.As(err, &notFound)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}

// IsRateLimit checks if the error is a rate limit error.
func IsRateLimit(err error) bool {
	rateErr := &RateLimitError{}

	return errors.As(err, &rateErr)
}

// IsConfiguration checks if the error is a configuration error.
func IsConfiguration(err error) bool {
	cfgErr := &ConfigurationError{}

	return errors.As(err, &cfgErr)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr)
}

// IsNetwork checks if the error is a network error.
func IsNetwork(err error) bool {
	netErr := &NetworkError{}

	return errors.As(err, &netErr)
}

// errorEnvelope is the upstream error body shape.
type errorEnvelope struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// ErrorDetail extracts the error and error_description fields from an
// upstream error body, falling back to the raw body when it is not JSON.
func ErrorDetail(body []byte) string {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil || envelope.Error == "" {
		return string(body)
	}

	if envelope.ErrorDescription != "" {
		return envelope.Error + ": " + envelope.ErrorDescription
	}

	return envelope.Error
}
