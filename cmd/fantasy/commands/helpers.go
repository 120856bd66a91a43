package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/fantasywire/fantasy-go/internal/auth"
	"github.com/fantasywire/fantasy-go/pkg/fantasy"
	"github.com/fantasywire/fantasy-go/pkg/fwclient"
)

// Static errors for err113 compliance.
var (
	ErrConsumerPairRequired = errors.New("consumer key and secret are required (flags, env, or config file)")
	ErrNotAuthenticated     = errors.New("not authenticated: run 'fantasy login' first")
	ErrStateMismatch        = errors.New("authorization callback state did not match")
)

func consumerPair() (string, string, error) {
	key := viper.GetString("consumer_key")
	secret := viper.GetString("consumer_secret")

	if key == "" || secret == "" {
		return "", "", ErrConsumerPairRequired
	}

	return key, secret, nil
}

// promptSecret reads a secret from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}

	return string(secret), nil
}

// newAuthenticatedClient builds a bearer-mode client from persisted
// credentials.
func newAuthenticatedClient() (fantasy.Client, error) {
	key, secret, err := consumerPair()
	if err != nil {
		return nil, err
	}

	store, err := auth.NewKeyringStore(keyringService)
	if err != nil {
		return nil, err
	}

	creds, err := store.Load()
	if err != nil {
		return nil, err
	}

	if creds == nil {
		return nil, ErrNotAuthenticated
	}

	return fwclient.New(&fantasy.Config{
		ConsumerKey:    key,
		ConsumerSecret: secret,
		RedirectURI:    viper.GetString("redirect_uri"),
		Credentials:    creds,
		Debug:          viper.GetBool("debug"),
		Logger:         &zerologAdapter{logger: logger},
	})
}
