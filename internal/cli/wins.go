package cli

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"github.com/spf13/cobra"
)

type winsOutput struct {
	Date         string      `json:"date"`
	Wins         models.Wins `json:"wins"`
	WinCount     int         `json:"win_count"`
	HasCheckmark bool        `json:"has_checkmark"`
}

func toWinsOutput(d *models.CheckmarkDay) winsOutput {
	wins := d.Wins
	if wins == nil {
		wins = models.Wins{}
	}
	return winsOutput{
		Date:         timex.FormatDate(d.Day),
		Wins:         wins,
		WinCount:     d.WinCount,
		HasCheckmark: d.HasCheckmark,
	}
}

// NewWinsCommand creates the wins command group.
func NewWinsCommand(rootOpts *RootOptions) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "wins",
		Short: "Record or show the wins of a day",
	}
	cmd.PersistentFlags().StringVar(&day, "date", "", "date (YYYY-MM-DD), default today")

	set := &cobra.Command{
		Use:   "set <win>...",
		Short: "Replace the wins of a day (three wins make a checkmark)",
		Args:  cobra.MaximumNArgs(models.WinsPerCheckmark),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				d, err := dateFlag(ctx, app, rootOpts.Owner, day)
				if err != nil {
					return err
				}
				rec, err := app.Checkmarks.RecordWins(ctx, rootOpts.Owner, d, models.Wins(args))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), toWinsOutput(rec))
			})
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the wins of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				d, err := dateFlag(ctx, app, rootOpts.Owner, day)
				if err != nil {
					return err
				}
				rec, err := app.Checkmarks.Get(ctx, rootOpts.Owner, d)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), toWinsOutput(rec))
			})
		},
	}

	cmd.AddCommand(set, show)
	return cmd
}
