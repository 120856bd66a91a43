package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fantasywire/fantasy-go/internal/http"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// TeamsClient implements fantasy.TeamsClient.
type TeamsClient struct {
	httpClient *http.Client
}

// NewTeamsClient creates a new teams client.
func NewTeamsClient(httpClient *http.Client) *TeamsClient {
	return &TeamsClient{httpClient: httpClient}
}

// Get implements fantasy.TeamsClient.Get.
func (c *TeamsClient) Get(ctx context.Context, teamKey string) (*fantasy.Team, error) {
	path, err := fantasy.NewPathBuilder().AddResource("team", teamKey).Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting team: %w", err)
	}

	var envelope struct {
		Team fantasy.Team `json:"team"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing team response: %w", err)
	}

	return &envelope.Team, nil
}

// Roster implements fantasy.TeamsClient.Roster.
func (c *TeamsClient) Roster(ctx context.Context, teamKey string) (*fantasy.Team, error) {
	path, err := fantasy.NewPathBuilder().
		AddResource("team", teamKey).
		AddCollection("roster").
		Render()
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting team roster: %w", err)
	}

	var envelope struct {
		Team   fantasy.Team    `json:"team"`
		Roster json.RawMessage `json:"roster"`
	}

	err = http.DecodeJSON(resp, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing roster response: %w", err)
	}

	if len(envelope.Roster) > 0 {
		roster, err := fantasy.UnmarshalCollection[fantasy.Player](envelope.Roster)
		if err != nil {
			return nil, fmt.Errorf("unwrapping roster collection: %w", err)
		}

		envelope.Team.Roster = roster.Items
	}

	return &envelope.Team, nil
}
