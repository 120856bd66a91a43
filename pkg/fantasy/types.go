package fantasy

import "time"

// Credentials is a bearer-mode credential pair. It is an immutable value:
// a refresh produces a new Credentials, never a field-by-field mutation.
type Credentials struct {
	AccessToken  string    `json:"access_token"         yaml:"access_token"`
	TokenType    string    `json:"token_type"           yaml:"token_type"`
	RefreshToken string    `json:"refresh_token"        yaml:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"           yaml:"expires_at"`
	SubjectID    string    `json:"subject_id,omitempty" yaml:"subject_id,omitempty"`
}

// Game represents one fantasy game (a sport plus season).
type Game struct {
	GameKey string `json:"game_key"           yaml:"game_key"`
	GameID  string `json:"game_id"            yaml:"game_id"`
	Name    string `json:"name"               yaml:"name"`
	Code    string `json:"code"               yaml:"code"`
	Season  string `json:"season"             yaml:"season"`
	Type    string `json:"type,omitempty"     yaml:"type,omitempty"`
	URL     string `json:"url,omitempty"      yaml:"url,omitempty"`
	IsOver  int    `json:"is_game_over"       yaml:"is_game_over"`
}

// League represents a fantasy league within a game.
type League struct {
	LeagueKey   string          `json:"league_key"            yaml:"league_key"`
	LeagueID    string          `json:"league_id"             yaml:"league_id"`
	Name        string          `json:"name"                  yaml:"name"`
	URL         string          `json:"url,omitempty"         yaml:"url,omitempty"`
	NumTeams    int             `json:"num_teams"             yaml:"num_teams"`
	ScoringType string          `json:"scoring_type"          yaml:"scoring_type"`
	Season      string          `json:"season"                yaml:"season"`
	CurrentWeek int             `json:"current_week"          yaml:"current_week"`
	StartDate   string          `json:"start_date,omitempty"  yaml:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"    yaml:"end_date,omitempty"`
	IsFinished  int             `json:"is_finished"           yaml:"is_finished"`
	Settings    *LeagueSettings `json:"settings,omitempty"    yaml:"settings,omitempty"`
	Standings   []TeamStanding  `json:"standings,omitempty"   yaml:"standings,omitempty"`
}

// LeagueSettings represents configurable league rules.
type LeagueSettings struct {
	DraftType       string       `json:"draft_type"                 yaml:"draft_type"`
	ScoringType     string       `json:"scoring_type"               yaml:"scoring_type"`
	UsesPlayoff     int          `json:"uses_playoff"               yaml:"uses_playoff"`
	PlayoffStart    int          `json:"playoff_start_week"         yaml:"playoff_start_week"`
	MaxTeams        int          `json:"max_teams"                  yaml:"max_teams"`
	WaiverType      string       `json:"waiver_type,omitempty"      yaml:"waiver_type,omitempty"`
	TradeDeadline   string       `json:"trade_end_date,omitempty"   yaml:"trade_end_date,omitempty"`
	RosterPositions []RosterSlot `json:"roster_positions,omitempty" yaml:"roster_positions,omitempty"`
}

// RosterSlot is one roster position allotment.
type RosterSlot struct {
	Position string `json:"position" yaml:"position"`
	Count    int    `json:"count"    yaml:"count"`
}

// TeamStanding is one row of a league's standings.
type TeamStanding struct {
	TeamKey       string  `json:"team_key"        yaml:"team_key"`
	Rank          int     `json:"rank"            yaml:"rank"`
	Wins          int     `json:"wins"            yaml:"wins"`
	Losses        int     `json:"losses"          yaml:"losses"`
	Ties          int     `json:"ties"            yaml:"ties"`
	Percentage    float64 `json:"percentage"      yaml:"percentage"`
	PointsFor     float64 `json:"points_for"      yaml:"points_for"`
	PointsAgainst float64 `json:"points_against"  yaml:"points_against"`
}

// Team represents a fantasy team within a league.
type Team struct {
	TeamKey        string   `json:"team_key"                yaml:"team_key"`
	TeamID         string   `json:"team_id"                 yaml:"team_id"`
	Name           string   `json:"name"                    yaml:"name"`
	URL            string   `json:"url,omitempty"           yaml:"url,omitempty"`
	WaiverPriority int      `json:"waiver_priority"         yaml:"waiver_priority"`
	NumberOfMoves  int      `json:"number_of_moves"         yaml:"number_of_moves"`
	NumberOfTrades int      `json:"number_of_trades"        yaml:"number_of_trades"`
	ManagerNames   []string `json:"manager_names,omitempty" yaml:"manager_names,omitempty"`
	Roster         []Player `json:"roster,omitempty"        yaml:"roster,omitempty"`
}

// Player represents a rosterable player.
type Player struct {
	PlayerKey         string   `json:"player_key"                   yaml:"player_key"`
	PlayerID          string   `json:"player_id"                    yaml:"player_id"`
	FullName          string   `json:"full_name"                    yaml:"full_name"`
	EditorialTeam     string   `json:"editorial_team,omitempty"     yaml:"editorial_team,omitempty"`
	UniformNumber     string   `json:"uniform_number,omitempty"     yaml:"uniform_number,omitempty"`
	DisplayPosition   string   `json:"display_position,omitempty"   yaml:"display_position,omitempty"`
	EligiblePositions []string `json:"eligible_positions,omitempty" yaml:"eligible_positions,omitempty"`
	Status            string   `json:"status,omitempty"             yaml:"status,omitempty"`
}

// User represents the authenticated account.
type User struct {
	SubjectID string `json:"subject_id"        yaml:"subject_id"`
	Nickname  string `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Email     string `json:"email,omitempty"    yaml:"email,omitempty"`
}

// Transaction represents a roster transaction (add, drop, or trade).
type Transaction struct {
	TransactionKey string              `json:"transaction_key"    yaml:"transaction_key"`
	TransactionID  string              `json:"transaction_id"     yaml:"transaction_id"`
	Type           string              `json:"type"               yaml:"type"`
	Status         string              `json:"status"             yaml:"status"`
	Timestamp      int64               `json:"timestamp"          yaml:"timestamp"`
	Players        []TransactionPlayer `json:"players,omitempty"  yaml:"players,omitempty"`
}

// TransactionPlayer is one player movement within a transaction.
type TransactionPlayer struct {
	PlayerKey          string `json:"player_key"                     yaml:"player_key"`
	FullName           string `json:"full_name,omitempty"            yaml:"full_name,omitempty"`
	Type               string `json:"type"                           yaml:"type"`
	SourceTeamKey      string `json:"source_team_key,omitempty"      yaml:"source_team_key,omitempty"`
	DestinationTeamKey string `json:"destination_team_key,omitempty" yaml:"destination_team_key,omitempty"`
}
