package auth

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackServer_CapturesFirstRequest(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewCallbackServer(0, "/callback", 5*time.Second)

	results := make(chan *CallbackResult, 1)
	errs := make(chan error, 1)

	go func() {
		result, err := server.ListenWith(context.Background(), listener)
		results <- result
		errs <- err
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/callback?code=abc123&state=st-42")
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	result := <-results
	require.NoError(t, <-errs)
	require.NotNil(t, result)
	assert.Equal(t, "abc123", result.Code)
	assert.Equal(t, "st-42", result.State)
	assert.Empty(t, result.ErrorCode)
}

func TestCallbackServer_CapturesDenial(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewCallbackServer(0, "/callback", 5*time.Second)

	results := make(chan *CallbackResult, 1)

	go func() {
		result, _ := server.ListenWith(context.Background(), listener)
		results <- result
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/callback?error=access_denied")
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	result := <-results
	require.NotNil(t, result)
	assert.Equal(t, "access_denied", result.ErrorCode)
	assert.Empty(t, result.Code)
}

func TestCallbackServer_Timeout(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewCallbackServer(0, "/callback", 50*time.Millisecond)

	_, err = server.ListenWith(context.Background(), listener)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCallbackTimeout)
}

func TestCallbackServer_ContextCancelled(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := NewCallbackServer(0, "/callback", 5*time.Second)

	_, err = server.ListenWith(ctx, listener)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCallbackServer_Defaults(t *testing.T) {
	t.Parallel()

	server := NewCallbackServer(8712, "", 0)
	assert.Equal(t, "/callback", server.path)
	assert.Positive(t, server.timeout)
	assert.Equal(t, "127.0.0.1:8712", server.Addr())
}
