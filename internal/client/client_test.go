package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasywire/fantasy-go/pkg/fantasy"
)

// newTestClient builds a client pointed at a server that answers every
// request from the routes map, keyed by URL path.
func newTestClient(t *testing.T, routes map[string]string) (*Client, *[]string) {
	t.Helper()

	var paths []string

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		paths = append(paths, request.URL.Path)

		body, ok := routes[request.URL.Path]
		if !ok {
			writer.WriteHeader(http.StatusNotFound)

			return
		}

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := New(&fantasy.Config{
		ConsumerKey:    "test-key",
		ConsumerSecret: "test-secret",
		BaseURL:        server.URL,
		Credentials: &fantasy.Credentials{
			AccessToken: "test-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	})
	require.NoError(t, err)

	return client, &paths
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		config   *fantasy.Config
		sentinel error
	}{
		{name: "nil config", config: nil, sentinel: fantasy.ErrConfigRequired},
		{name: "missing key", config: &fantasy.Config{ConsumerSecret: "s"}, sentinel: fantasy.ErrConsumerKeyRequired},
		{name: "missing secret", config: &fantasy.Config{ConsumerKey: "k"}, sentinel: fantasy.ErrConsumerSecretRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			require.Error(t, err)
			assert.True(t, fantasy.IsConfiguration(err))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestNew_SignedMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.NotEmpty(t, request.URL.Query().Get("auth_signature"))
		assert.Empty(t, request.Header.Get("Authorization"))

		_, _ = writer.Write([]byte(`{"game": {"game_key": "nfl"}}`))
	}))
	defer server.Close()

	client, err := New(&fantasy.Config{
		ConsumerKey:    "test-key",
		ConsumerSecret: "test-secret",
		BaseURL:        server.URL,
		SignedRequests: true,
	})
	require.NoError(t, err)

	game, err := client.Games().Get(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, "nfl", game.GameKey)
}

func TestClient_SetCredentials(t *testing.T) {
	client, _ := newTestClient(t, nil)

	assert.Equal(t, "test-token", client.Credentials().AccessToken)

	client.SetCredentials(&fantasy.Credentials{AccessToken: "replaced"})
	assert.Equal(t, "replaced", client.Credentials().AccessToken)
}

func TestUsersClient_Current(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/users;use_login=1": `{"users": {"0": {"subject_id": "subj-1", "nickname": "Pat"}, "count": 1}}`,
	})

	user, err := client.Users().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "subj-1", user.SubjectID)
	assert.Equal(t, "Pat", user.Nickname)
	assert.Equal(t, []string{"/users;use_login=1"}, *paths)
}

func TestUsersClient_Current_Empty(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/users;use_login=1": `{"users": {"count": 0}}`,
	})

	_, err := client.Users().Current(context.Background())
	require.Error(t, err)
	assert.True(t, fantasy.IsNotFound(err))
}

func TestUsersClient_Leagues(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/users;use_login=1/games;game_keys=nfl/leagues": `{"leagues": [
			{"league_key": "423.l.1", "name": "First"},
			{"league_key": "423.l.2", "name": "Second"}
		]}`,
	})

	leagues, err := client.Users().Leagues(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, 2, leagues.Count)
	assert.Equal(t, "423.l.1", leagues.Items[0].LeagueKey)
	assert.Equal(t, []string{"/users;use_login=1/games;game_keys=nfl/leagues"}, *paths)
}

func TestUsersClient_Leagues_NoGameFilter(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/users;use_login=1/games/leagues": `{"leagues": []}`,
	})

	leagues, err := client.Users().Leagues(context.Background())
	require.NoError(t, err)
	assert.Zero(t, leagues.Count)
	assert.Equal(t, []string{"/users;use_login=1/games/leagues"}, *paths)
}

func TestGamesClient_Get(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/game/nfl": `{"game": {"game_key": "nfl", "name": "Football", "season": "2026"}}`,
	})

	game, err := client.Games().Get(context.Background(), "nfl")
	require.NoError(t, err)
	assert.Equal(t, "Football", game.Name)
	assert.Equal(t, "2026", game.Season)
}

func TestLeaguesClient_Settings(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/league/423.l.1;out=settings": `{"league": {
			"league_key": "423.l.1",
			"settings": {"draft_type": "live", "max_teams": 12}
		}}`,
	})

	league, err := client.Leagues().Settings(context.Background(), "423.l.1")
	require.NoError(t, err)
	require.NotNil(t, league.Settings)
	assert.Equal(t, "live", league.Settings.DraftType)
	assert.Equal(t, 12, league.Settings.MaxTeams)
	assert.Equal(t, []string{"/league/423.l.1;out=settings"}, *paths)
}

func TestLeaguesClient_Standings(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/league/423.l.1;out=standings": `{
			"league": {"league_key": "423.l.1", "name": "My League"},
			"standings": {
				"0": {"team_key": "423.l.1.t.2", "rank": 1, "wins": 10},
				"1": {"team_key": "423.l.1.t.5", "rank": 2, "wins": 8},
				"count": 2
			}
		}`,
	})

	league, err := client.Leagues().Standings(context.Background(), "423.l.1")
	require.NoError(t, err)
	assert.Equal(t, "My League", league.Name)
	require.Len(t, league.Standings, 2)
	assert.Equal(t, 1, league.Standings[0].Rank)
	assert.Equal(t, "423.l.1.t.5", league.Standings[1].TeamKey)
	assert.Equal(t, []string{"/league/423.l.1;out=standings"}, *paths)
}

func TestTeamsClient_Roster(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/team/423.l.1.t.2/roster": `{
			"team": {"team_key": "423.l.1.t.2", "name": "The Crushers"},
			"roster": [
				{"player_key": "423.p.100", "full_name": "Jordan Field"},
				{"player_key": "423.p.200", "full_name": "Casey Stretch"}
			]
		}`,
	})

	team, err := client.Teams().Roster(context.Background(), "423.l.1.t.2")
	require.NoError(t, err)
	assert.Equal(t, "The Crushers", team.Name)
	require.Len(t, team.Roster, 2)
	assert.Equal(t, "423.p.100", team.Roster[0].PlayerKey)
}

func TestPlayersClient_Search(t *testing.T) {
	client, paths := newTestClient(t, map[string]string{
		"/league/423.l.1/players;search=smith": `{"players": {
			"0": {"player_key": "423.p.100", "full_name": "Alex Smith"},
			"count": 1
		}}`,
	})

	players, err := client.Players().Search(context.Background(), "423.l.1", "smith")
	require.NoError(t, err)
	assert.Equal(t, 1, players.Count)
	assert.Equal(t, "Alex Smith", players.Items[0].FullName)
	assert.Equal(t, []string{"/league/423.l.1/players;search=smith"}, *paths)
}

func TestTransactionsClient_List(t *testing.T) {
	client, _ := newTestClient(t, map[string]string{
		"/league/423.l.1/transactions": `{"transactions": [
			{"transaction_key": "423.l.1.tr.1", "type": "add", "status": "successful"}
		]}`,
	})

	transactions, err := client.Transactions().List(context.Background(), "423.l.1")
	require.NoError(t, err)
	assert.Equal(t, 1, transactions.Count)
	assert.Equal(t, "add", transactions.Items[0].Type)
}

func TestClient_NotFoundPropagates(t *testing.T) {
	client, _ := newTestClient(t, nil)

	_, err := client.Games().Get(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, fantasy.IsNotFound(err))
}
