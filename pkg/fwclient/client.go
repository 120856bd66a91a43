// Package fwclient provides the main entry point for creating FantasyWire
// API clients.
package fwclient

import (
	"strings"

	"github.com/fantasywire/fantasy-go/internal/client"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// New creates a new API client from config, normalizing the base URL.
func New(config *fantasy.Config) (fantasy.Client, error) {
	if config == nil {
		return nil, &fantasy.ConfigurationError{Detail: "config is required", Err: fantasy.ErrConfigRequired}
	}

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	return client.New(config)
}

// NewSigned creates a client in signed-request mode.
func NewSigned(consumerKey, consumerSecret string) (fantasy.Client, error) {
	return New(&fantasy.Config{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		SignedRequests: true,
	})
}

// NewWithCredentials creates a client in bearer mode with existing
// credentials.
func NewWithCredentials(consumerKey, consumerSecret, redirectURI string, creds *fantasy.Credentials) (fantasy.Client, error) {
	return New(&fantasy.Config{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		RedirectURI:    redirectURI,
		Credentials:    creds,
	})
}
