package commands

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fantasywire/fantasy-go/internal/auth"
)

const defaultCallbackPort = 8712

func newLoginCommand() *cobra.Command {
	var (
		port    int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize with the FantasyWire API",
		Long:  "Runs the authorization-code flow: opens a local callback listener, prints the authorization URL, exchanges the returned code, and persists the credentials in the OS keyring.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := viper.GetString("consumer_key")
			if key == "" {
				return ErrConsumerPairRequired
			}

			secret := viper.GetString("consumer_secret")
			if secret == "" {
				var err error

				secret, err = promptSecret("Consumer secret: ")
				if err != nil {
					return err
				}
			}

			redirectURI := viper.GetString("redirect_uri")
			if redirectURI == "" {
				redirectURI = "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/callback"
			}

			manager, err := auth.NewTokenManager(&auth.TokenConfig{
				ConsumerKey:    key,
				ConsumerSecret: secret,
				RedirectURI:    redirectURI,
				AuthURL:        viper.GetString("auth_url"),
				TokenURL:       viper.GetString("token_url"),
			})
			if err != nil {
				return err
			}

			state := uuid.NewString()

			authURL, err := manager.BuildAuthorizationURL(state, viper.GetString("locale"))
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Visit the following URL to authorize:\n\n  %s\n\nWaiting for callback on %s ...\n", authURL, redirectURI)

			callbackPath := "/callback"
			if parsed, parseErr := url.Parse(redirectURI); parseErr == nil && parsed.Path != "" {
				callbackPath = parsed.Path
			}

			listener := auth.NewCallbackServer(port, callbackPath, timeout)

			result, err := listener.Listen(cmd.Context())
			if err != nil {
				return err
			}

			if result.ErrorCode != "" {
				return fmt.Errorf("authorization denied: %s", result.ErrorCode) //nolint:err113 // upstream-provided code
			}

			if result.State != state {
				logger.Warn().Str("state", result.State).Msg("callback state mismatch, rejecting code")

				return ErrStateMismatch
			}

			creds, err := manager.ExchangeCode(cmd.Context(), result.Code)
			if err != nil {
				return err
			}

			store, err := auth.NewKeyringStore(keyringService)
			if err != nil {
				return err
			}

			err = store.Save(creds)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Authorized. Credentials valid until %s.\n", creds.ExpiresAt.Format(time.RFC1123))

			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultCallbackPort, "local callback listener port")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the authorization callback")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove persisted credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewKeyringStore(keyringService)
			if err != nil {
				return err
			}

			err = store.Clear()
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, "Credentials removed.")

			return nil
		},
	}
}
