package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// UsersClient implements fantasy.UsersClient.
type UsersClient struct {
	httpClient *http.Client
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{httpClient: httpClient}
}

// Current implements fantasy.UsersClient.Current.
func (c *UsersClient) Current(ctx context.Context) (*fantasy.User, error) {
	path, err := fantasy.NewPathBuilder().
		AddCollection("users").
		SetParameter("use_login", "1").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	var envelope struct {
		Users json.RawMessage `json:"users"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing users response: %w", err)
	}

	users, err := fantasy.UnmarshalCollection[fantasy.User](envelope.Users)
	if err != nil {
		return nil, fmt.Errorf("unwrapping users collection: %w", err)
	}

	if len(users.Items) == 0 {
		return nil, &fantasy.NotFoundError{Path: path}
	}

	return &users.Items[0], nil
}

// Games implements fantasy.UsersClient.Games.
func (c *UsersClient) Games(ctx context.Context) (*fantasy.Collection[fantasy.Game], error) {
	path, err := fantasy.NewPathBuilder().
		AddCollection("users").
		SetParameter("use_login", "1").
		AddCollection("games").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing user games: %w", err)
	}

	var envelope struct {
		Games json.RawMessage `json:"games"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing games response: %w", err)
	}

	return fantasy.UnmarshalCollection[fantasy.Game](envelope.Games)
}

// Leagues implements fantasy.UsersClient.Leagues.
func (c *UsersClient) Leagues(ctx context.Context, gameKeys ...string) (*fantasy.Collection[fantasy.League], error) {
	builder := fantasy.NewPathBuilder().
		AddCollection("users").
		SetParameter("use_login", "1").
		AddCollection("games")

	if len(gameKeys) > 0 {
		builder.SetParameter("game_keys", gameKeys...)
	}

	path, err := builder.AddCollection("leagues").Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing user leagues: %w", err)
	}

	var envelope struct {
		Leagues json.RawMessage `json:"leagues"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing leagues response: %w", err)
	}

	return fantasy.UnmarshalCollection[fantasy.League](envelope.Leagues)
}
