package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// cliConfig is the subset of settings persisted in the config file.
type cliConfig struct {
	ConsumerKey    string `yaml:"consumer_key,omitempty"`
	ConsumerSecret string `yaml:"consumer_secret,omitempty"`
	Debug          bool   `yaml:"debug"`
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := cliConfig{
				ConsumerKey:    viper.GetString("consumer_key"),
				ConsumerSecret: maskSecret(viper.GetString("consumer_secret")),
				Debug:          viper.GetBool("debug"),
			}

			data, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}

			if file := viper.ConfigFileUsed(); file != "" {
				fmt.Fprintf(os.Stdout, "# %s\n", file)
			}

			_, err = os.Stdout.Write(data)

			return err
		},
	}

	return cmd
}

// maskSecret keeps the last four characters so the user can tell which
// secret is configured without printing the whole value.
func maskSecret(secret string) string {
	const visible = 4

	if secret == "" {
		return ""
	}

	if len(secret) <= visible {
		return "****"
	}

	return "****" + secret[len(secret)-visible:]
}
