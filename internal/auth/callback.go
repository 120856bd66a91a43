package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/fantasywire/fantasy-go/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrCallbackTimeout = errors.New("timed out waiting for authorization callback")
)

// CallbackResult carries the query parameters captured from the single
// authorization redirect.
type CallbackResult struct {
	Code  string
	State string
	// ErrorCode is set when the user denied authorization.
	ErrorCode string
}

// CallbackServer binds a single HTTP endpoint, captures the code/state/error
// parameters from exactly one request, then shuts itself down. Its overall
// timeout is independent of any request-level timeout.
type CallbackServer struct {
	port    int
	path    string
	timeout time.Duration
}

// NewCallbackServer creates a listener for the given port and path. A
// non-positive timeout falls back to the default.
func NewCallbackServer(port int, path string, timeout time.Duration) *CallbackServer {
	if path == "" {
		path = "/callback"
	}

	if timeout <= 0 {
		timeout = constants.DefaultCallbackTimeout
	}

	return &CallbackServer{port: port, path: path, timeout: timeout}
}

// Listen serves until one callback request arrives, the timeout elapses, or
// ctx is done, whichever comes first.
func (s *CallbackServer) Listen(ctx context.Context) (*CallbackResult, error) {
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(s.port)))
	if err != nil {
		return nil, fmt.Errorf("binding callback listener: %w", err)
	}

	return s.ListenWith(ctx, listener)
}

// ListenWith serves on an externally created listener. It exists as a seam
// so tests can bind an ephemeral port themselves.
func (s *CallbackServer) ListenWith(ctx context.Context, listener net.Listener) (*CallbackResult, error) {
	results := make(chan *CallbackResult, 1)

	var once sync.Once

	mux := http.NewServeMux()
	mux.HandleFunc(s.path, func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		result := &CallbackResult{
			Code:      query.Get("code"),
			State:     query.Get("state"),
			ErrorCode: query.Get("error"),
		}

		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(writer, "<html><body>Authorization received. You can close this window.</body></html>")

		once.Do(func() { results <- result })
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: constants.ShortHTTPTimeout,
	}

	go func() {
		_ = server.Serve(listener)
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case result := <-results:
		return result, nil
	case <-timer.C:
		return nil, ErrCallbackTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Addr returns the address the listener will bind.
func (s *CallbackServer) Addr() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(s.port))
}
