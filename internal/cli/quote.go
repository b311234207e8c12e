package cli

import (
	"context"

	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"github.com/spf13/cobra"
)

type quoteOutput struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Stale  bool   `json:"stale"`
}

// NewQuoteCommand creates the quote command.
func NewQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the quote of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				today, err := dateFlag(ctx, app, rootOpts.Owner, day)
				if err != nil {
					return err
				}
				q, stale, err := app.Quotes.GetToday(ctx, today)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), quoteOutput{
					Date:   timex.FormatDate(q.Date),
					Text:   q.Text,
					Author: q.Author,
					Stale:  stale,
				})
			})
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "date (YYYY-MM-DD), default today")
	return cmd
}
