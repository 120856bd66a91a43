package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newLeaguesCommand() *cobra.Command {
	var gameKeys []string

	cmd := &cobra.Command{
		Use:   "leagues",
		Short: "List the authenticated user's leagues",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAuthenticatedClient()
			if err != nil {
				return err
			}

			leagues, err := client.Users().Leagues(cmd.Context(), gameKeys...)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("League Key", "Name", "Season", "Teams", "Scoring")

			for _, league := range leagues.Items {
				_ = table.Append(
					league.LeagueKey,
					league.Name,
					league.Season,
					strconv.Itoa(league.NumTeams),
					league.ScoringType,
				)
			}

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&gameKeys, "game", nil, "restrict to the given game keys")

	return cmd
}

func newLeagueCommand() *cobra.Command {
	var showStandings bool

	cmd := &cobra.Command{
		Use:   "league LEAGUE_KEY",
		Short: "Show one league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAuthenticatedClient()
			if err != nil {
				return err
			}

			if showStandings {
				league, err := client.Leagues().Standings(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Rank", "Team", "W", "L", "T", "Pts For", "Pts Against")

				for _, row := range league.Standings {
					_ = table.Append(
						strconv.Itoa(row.Rank),
						row.TeamKey,
						strconv.Itoa(row.Wins),
						strconv.Itoa(row.Losses),
						strconv.Itoa(row.Ties),
						fmt.Sprintf("%.1f", row.PointsFor),
						fmt.Sprintf("%.1f", row.PointsAgainst),
					)
				}

				_ = table.Render()

				return nil
			}

			league, err := client.Leagues().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")

			_ = table.Append("League Key", league.LeagueKey)
			_ = table.Append("Name", league.Name)
			_ = table.Append("Season", league.Season)
			_ = table.Append("Teams", strconv.Itoa(league.NumTeams))
			_ = table.Append("Scoring", league.ScoringType)
			_ = table.Append("Current Week", strconv.Itoa(league.CurrentWeek))

			_ = table.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&showStandings, "standings", false, "show league standings")

	return cmd
}
