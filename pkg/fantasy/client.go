package fantasy

import (
	"context"
	"time"
)

// UsersClient accesses the authenticated user's resources.
type UsersClient interface {
	Current(ctx context.Context) (*User, error)
	Games(ctx context.Context) (*Collection[Game], error)
	Leagues(ctx context.Context, gameKeys ...string) (*Collection[League], error)
}

// GamesClient accesses game resources.
type GamesClient interface {
	Get(ctx context.Context, gameKey string) (*Game, error)
	Leagues(ctx context.Context, gameKey string) (*Collection[League], error)
}

// LeaguesClient accesses league resources.
type LeaguesClient interface {
	Get(ctx context.Context, leagueKey string) (*League, error)
	Settings(ctx context.Context, leagueKey string) (*League, error)
	Standings(ctx context.Context, leagueKey string) (*League, error)
	Teams(ctx context.Context, leagueKey string) (*Collection[Team], error)
}

// TeamsClient accesses team resources.
type TeamsClient interface {
	Get(ctx context.Context, teamKey string) (*Team, error)
	Roster(ctx context.Context, teamKey string) (*Team, error)
}

// PlayersClient accesses player resources.
type PlayersClient interface {
	Get(ctx context.Context, playerKey string) (*Player, error)
	Search(ctx context.Context, leagueKey, query string) (*Collection[Player], error)
}

// TransactionsClient accesses league transaction resources.
type TransactionsClient interface {
	Get(ctx context.Context, transactionKey string) (*Transaction, error)
	List(ctx context.Context, leagueKey string) (*Collection[Transaction], error)
}

// Client is the top-level API client.
type Client interface {
	Users() UsersClient
	Games() GamesClient
	Leagues() LeaguesClient
	Teams() TeamsClient
	Players() PlayersClient
	Transactions() TransactionsClient

	// Credentials returns the bearer credentials currently held by the
	// transport, or nil in signed-request mode.
	Credentials() *Credentials
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration.
//
// # Authentication precedence
//
// Two auth schemes are supported and may be configured together:
//  1. Signed-request mode (SignedRequests): every request URL carries a
//     per-request signature computed from the consumer pair. When enabled,
//     this mode always wins, even if bearer credentials are also held.
//  2. Bearer mode: Credentials (obtained via the authorization-code flow)
//     are attached as an Authorization header and refreshed automatically
//     before expiry when a refresh token is present.
//
// Requests are never sent unauthenticated unless explicitly requested per
// call.
type Config struct {
	// ConsumerKey identifies the registered application. Required.
	ConsumerKey string
	// ConsumerSecret is the application secret. Required.
	ConsumerSecret string

	// SignedRequests enables signed-request mode. Takes priority over
	// bearer credentials.
	SignedRequests bool
	// SignatureMethod selects the signing scheme ("HMAC-SHA1" or
	// "PLAINTEXT"). Defaults to HMAC-SHA1.
	SignatureMethod string

	// Credentials are initial bearer credentials, e.g. loaded from a
	// persister. Refreshes replace them wholesale on the client.
	Credentials *Credentials
	// RedirectURI is the registered callback target for the
	// authorization-code flow. Required for token exchange and refresh.
	RedirectURI string

	// BaseURL overrides the API endpoint. Defaults to the production API.
	BaseURL string
	// AuthURL overrides the user authorization endpoint.
	AuthURL string
	// TokenURL overrides the token endpoint.
	TokenURL string

	// HTTPTimeout is the per-request timeout. Defaults to 30s.
	HTTPTimeout time.Duration
	// RetryMax is the number of retries after the initial attempt.
	// Defaults to 3.
	RetryMax int
	// BackoffBase is the base delay for exponential backoff. Defaults to 1s.
	BackoffBase time.Duration
	// BackoffMax caps the backoff delay. Defaults to 30s.
	BackoffMax time.Duration

	// RateLimit is the max requests admitted per RateWindow. Defaults to 20.
	RateLimit int
	// RateWindow is the sliding-window width. Defaults to 1s.
	RateWindow time.Duration

	// Debug enables verbose request/response logging when Logger is set.
	Debug bool
	// Logger is an optional structured logger used by the transport.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
