package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// PlayersClient implements fantasy.PlayersClient.
type PlayersClient struct {
	httpClient *http.Client
}

// NewPlayersClient creates a new players client.
func NewPlayersClient(httpClient *http.Client) *PlayersClient {
	return &PlayersClient{httpClient: httpClient}
}

// Get implements fantasy.PlayersClient.Get.
func (c *PlayersClient) Get(ctx context.Context, playerKey string) (*fantasy.Player, error) {
	path, err := fantasy.NewPathBuilder().AddResource("player", playerKey).Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting player: %w", err)
	}

	var envelope struct {
		Player fantasy.Player `json:"player"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing player response: %w", err)
	}

	return &envelope.Player, nil
}

// Search implements fantasy.PlayersClient.Search.
func (c *PlayersClient) Search(ctx context.Context, leagueKey, query string) (*fantasy.Collection[fantasy.Player], error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("league", leagueKey).
		AddCollection("players").
		SetParameter("search", query).
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("searching players: %w", err)
	}

	var envelope struct {
		Players json.RawMessage `json:"players"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing players response: %w", err)
	}

	return fantasy.UnmarshalCollection[fantasy.Player](envelope.Players)
}
