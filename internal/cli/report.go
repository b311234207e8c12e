package cli

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"github.com/spf13/cobra"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var from, to string
	var days int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export a productivity report to object storage",
		Long: `Render daily scores and streaks of a date range as JSON, upload it and
print a time-limited download URL. The range defaults to the last --days days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				end, err := dateFlag(ctx, app, rootOpts.Owner, to)
				if err != nil {
					return err
				}
				start := timex.AddDays(end, -(days - 1))
				if from != "" {
					if start, err = dateFlag(ctx, app, rootOpts.Owner, from); err != nil {
						return err
					}
				}
				res, err := app.Reports.Export(ctx, rootOpts.Owner, start, end)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date (YYYY-MM-DD), default today")
	cmd.Flags().IntVar(&days, "days", 7, "range length when --from is not set")
	return cmd
}
