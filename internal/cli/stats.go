package cli

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show streaks and daily scores",
		Long: `Without --from, show today's score and the checkmark streaks. With --from,
list the daily scores of every date up to --to (default today).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if from == "" {
					s, err := app.Stats.Summary(ctx, rootOpts.Owner)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), s)
				}

				start, err := dateFlag(ctx, app, rootOpts.Owner, from)
				if err != nil {
					return err
				}
				end, err := dateFlag(ctx, app, rootOpts.Owner, to)
				if err != nil {
					return err
				}
				days, err := app.Stats.DailyScores(ctx, rootOpts.Owner, start, end)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), days)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD), default today")
	return cmd
}

// NewTimezoneCommand creates the timezone command.
func NewTimezoneCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timezone [zone]",
		Short: "Show or set the IANA time zone that defines your day",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if len(args) == 1 {
					if err := app.Settings.SetTimeZone(ctx, rootOpts.Owner, args[0]); err != nil {
						return err
					}
				}
				loc, err := app.Settings.Location(ctx, rootOpts.Owner)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{"time_zone": loc.String()})
			})
		},
	}
}
