package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// LeaguesClient implements fantasy.LeaguesClient.
type LeaguesClient struct {
	httpClient *http.Client
}

// NewLeaguesClient creates a new leagues client.
func NewLeaguesClient(httpClient *http.Client) *LeaguesClient {
	return &LeaguesClient{httpClient: httpClient}
}

// Get implements fantasy.LeaguesClient.Get.
func (c *LeaguesClient) Get(ctx context.Context, leagueKey string) (*fantasy.League, error) {
	path, err := fantasy.NewPathBuilder().AddResource("league", leagueKey).Render()
	if err != nil {
		return nil, err
	}

	return c.getLeague(ctx, path)
}

// Settings implements fantasy.LeaguesClient.Settings.
func (c *LeaguesClient) Settings(ctx context.Context, leagueKey string) (*fantasy.League, error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("league", leagueKey).
		Out("settings").
		Render()
	if err != nil {
		return nil, err
	}

	return c.getLeague(ctx, path)
}

// Standings implements fantasy.LeaguesClient.Standings.
func (c *LeaguesClient) Standings(ctx context.Context, leagueKey string) (*fantasy.League, error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("league", leagueKey).
		Out("standings").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting league standings: %w", err)
	}

	var envelope struct {
		League    fantasy.League  `json:"league"`
		Standings json.RawMessage `json:"standings"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing standings response: %w", err)
	}

	if len(envelope.Standings) > 0 {
		standings, err := fantasy.UnmarshalCollection[fantasy.TeamStanding](envelope.Standings)
		if err != nil {
			return nil, fmt.Errorf("unwrapping standings collection: %w", err)
		}

		envelope.League.Standings = standings.Items
	}

	return &envelope.League, nil
}

// Teams implements fantasy.LeaguesClient.Teams.
func (c *LeaguesClient) Teams(ctx context.Context, leagueKey string) (*fantasy.Collection[fantasy.Team], error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("league", leagueKey).
		AddCollection("teams").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("listing league teams: %w", err)
	}

	var envelope struct {
		Teams json.RawMessage `json:"teams"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing teams response: %w", err)
	}

	return fantasy.UnmarshalCollection[fantasy.Team](envelope.Teams)
}

func (c *LeaguesClient) getLeague(ctx context.Context, path string) (*fantasy.League, error) {
	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting league: %w", err)
	}

	var envelope struct {
		League fantasy.League `json:"league"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing league response: %w", err)
	}

	return &envelope.League, nil
}
