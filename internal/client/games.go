package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// GamesClient implements fantasy.GamesClient.
type GamesClient struct {
	httpClient *http.Client
}

// NewGamesClient creates a new games client.
func NewGamesClient(httpClient *http.Client) *GamesClient {
	return &GamesClient{httpClient: httpClient}
}

// Get implements fantasy.GamesClient.Get.
func (c *GamesClient) Get(ctx context.Context, gameKey string) (*fantasy.Game, error) {
	path, err := fantasy.NewPathBuilder().AddResource("game", gameKey).Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting game: %w", err)
	}

	var envelope struct {
		Game fantasy.Game `json:"game"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing game response: %w", err)
	}

	return &envelope.Game, nil
}

// Leagues implements fantasy.GamesClient.Leagues.
func (c *GamesClient) Leagues(ctx context.Context, gameKey string) (*fantasy.Collection[fantasy.League], error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("game", gameKey).
		AddCollection("leagues").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing game leagues: %w", err)
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
