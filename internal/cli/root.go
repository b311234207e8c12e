// Package cli implements the tracker command line: one cobra command per
// use case, each opening the app, running once and exiting.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/server/config"
	"github.com/dmitrijs2005/prodtracker/internal/timex"
	"github.com/spf13/cobra"
)

// openApp is replaced in tests.
var openApp = server.NewApp

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Flags config.Flags
	Owner string
}

// NewRootCommand creates the tracker root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tracker",
		Short:         "Personal productivity tracker",
		Long:          "Syncs commits and calendar events, keeps daily wins and a quote of the day, and reports streaks and scores.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.Flags.Bind(cmd.PersistentFlags())
	cmd.PersistentFlags().StringVarP(&opts.Owner, "owner", "o", defaultOwner(), "owner id (TRACKER_OWNER)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewQuoteCommand(opts))
	cmd.AddCommand(NewWinsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewTimezoneCommand(opts))
	cmd.AddCommand(NewConnectCommand(opts))
	cmd.AddCommand(NewDisconnectCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

func defaultOwner() string {
	if v := os.Getenv("TRACKER_OWNER"); v != "" {
		return v
	}
	return "default"
}

// withApp loads the configuration, opens the app for the duration of fn
// and cancels fn's context on SIGINT/SIGTERM.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, app *server.App) error) error {
	cfg, err := config.LoadConfig(cmd.Flags(), &opts.Flags)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.SignalContext(ctx)
	defer cancel()
	return fn(ctx, app)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dateFlag resolves a YYYY-MM-DD flag, or the owner's today when unset.
func dateFlag(ctx context.Context, app *server.App, owner, value string) (time.Time, error) {
	if value == "" {
		return app.Stats.Today(ctx, owner)
	}
	day, err := timex.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, want YYYY-MM-DD", common.ErrValidation, value)
	}
	return day, nil
}
