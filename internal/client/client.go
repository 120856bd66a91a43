// Package client wires the resource clients over the transport and applies
// the configured authentication strategy.
package client

import (
	"github.com/fantasywire/fantasy-go/internal/auth"
	"github.com/fantasywire/fantasy-go/internal/constants"
	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// Client implements the fantasy.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager *auth.TokenManager

	users        fantasy.UsersClient
	games        fantasy.GamesClient
	leagues      fantasy.LeaguesClient
	teams        fantasy.TeamsClient
	players      fantasy.PlayersClient
	transactions fantasy.TransactionsClient
}

// New creates an API client from config. The consumer pair is required; the
// auth mode follows the config (signed-request mode wins when both are set).
func New(config *fantasy.Config) (*Client, error) {
	if config == nil {
		return nil, &fantasy.ConfigurationError{Detail: "config is required", Err: fantasy.ErrConfigRequired}
	}

	if config.ConsumerKey == "" {
		return nil, &fantasy.ConfigurationError{Detail: "consumer key must not be empty", Err: fantasy.ErrConsumerKeyRequired}
	}

	if config.ConsumerSecret == "" {
		return nil, &fantasy.ConfigurationError{Detail: "consumer secret must not be empty", Err: fantasy.ErrConsumerSecretRequired}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	tokenManager, err := auth.NewTokenManager(&auth.TokenConfig{
		ConsumerKey:    config.ConsumerKey,
		ConsumerSecret: config.ConsumerSecret,
		RedirectURI:    config.RedirectURI,
		AuthURL:        config.AuthURL,
		TokenURL:       config.TokenURL,
	})
	if err != nil {
		return nil, err
	}

	opts, err := transportOptions(config, tokenManager)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:   http.NewClient(baseURL, opts...),
		tokenManager: tokenManager,
	}

	client.initializeResourceClients()

	return client, nil
}

// TokenManager returns the token manager for this client, for use by login
// flows that drive the authorization-code exchange directly.
func (c *Client) TokenManager() *auth.TokenManager {
	return c.tokenManager
}

// Credentials implements fantasy.Client.Credentials.
func (c *Client) Credentials() *fantasy.Credentials {
	return c.httpClient.Credentials()
}

// SetCredentials replaces the transport's bearer credentials wholesale.
func (c *Client) SetCredentials(creds *fantasy.Credentials) {
	c.httpClient.SetCredentials(creds)
}

// Users implements fantasy.Client.Users.
func (c *Client) Users() fantasy.UsersClient {
	return c.users
}

// Games implements fantasy.Client.Games.
func (c *Client) Games() fantasy.GamesClient {
	return c.games
}

// Leagues implements fantasy.Client.Leagues.
func (c *Client) Leagues() fantasy.LeaguesClient {
	return c.leagues
}

// Teams implements fantasy.Client.Teams.
func (c *Client) Teams() fantasy.TeamsClient {
	return c.teams
}

// Players implements fantasy.Client.Players.
func (c *Client) Players() fantasy.PlayersClient {
	return c.players
}

// Transactions implements fantasy.Client.Transactions.
func (c *Client) Transactions() fantasy.TransactionsClient {
	return c.transactions
}

func (c *Client) initializeResourceClients() {
	c.users = NewUsersClient(c.httpClient)
	c.games = NewGamesClient(c.httpClient)
	c.leagues = NewLeaguesClient(c.httpClient)
	c.teams = NewTeamsClient(c.httpClient)
	c.players = NewPlayersClient(c.httpClient)
	c.transactions = NewTransactionsClient(c.httpClient)
}

// transportOptions builds transport options from config.
func transportOptions(config *fantasy.Config, tokenManager *auth.TokenManager) ([]http.Option, error) {
	var opts []http.Option

	if config.SignedRequests {
		signer, err := auth.NewSigner(config.ConsumerKey, config.ConsumerSecret)
		if err != nil {
			return nil, err
		}

		opts = append(opts, http.WithSigner(signer, config.SignatureMethod))
	}

	if config.Credentials != nil {
		opts = append(opts, http.WithCredentials(config.Credentials, tokenManager.Refresh))
	}

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		backoffBase := constants.DefaultBackoffBase
		backoffMax := constants.DefaultBackoffMax

		if config.BackoffBase > 0 {
			backoffBase = config.BackoffBase
		}

		if config.BackoffMax > 0 {
			backoffMax = config.BackoffMax
		}

		opts = append(opts, http.WithRetryConfig(config.RetryMax, backoffBase, backoffMax))
	}

	if config.RateLimit > 0 || config.RateWindow > 0 {
		opts = append(opts, http.WithRateLimit(config.RateLimit, config.RateWindow))
	}

	return opts, nil
}
