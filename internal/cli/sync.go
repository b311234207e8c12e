package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if err := app.Repos.RunMigrations(ctx); err != nil {
					return err
				}
				app.Logger.Info(ctx, "migrations applied")
				return nil
			})
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [commits|calendar]...",
		Short: "Pull new data from connected sources",
		Long: `Pull new data from the named sources, or from every connected source when
none is named. A run that hits a provider rate limit keeps what it stored and
reports partial=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, explicit, err := syncTargets(args)
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				return runSync(ctx, app, rootOpts.Owner, srcs, explicit, cmd)
			})
		},
	}
}

func syncTargets(args []string) ([]models.Source, bool, error) {
	if len(args) == 0 {
		return []models.Source{models.SourceCommits, models.SourceCalendar}, false, nil
	}
	out := make([]models.Source, 0, len(args))
	for _, a := range args {
		src, err := models.ParseSource(a)
		if err != nil {
			return nil, true, err
		}
		if src == models.SourceQuote {
			return nil, true, errors.New("the quote is fetched on demand, use the quote command")
		}
		out = append(out, src)
	}
	return out, true, nil
}

func runSync(ctx context.Context, app *server.App, owner string, srcs []models.Source, explicit bool, cmd *cobra.Command) error {
	results := make([]*models.SyncRunResult, 0, len(srcs))
	var errs []error
	for _, src := range srcs {
		res, err := app.Sync.Run(ctx, owner, src)
		if err != nil && !explicit && errors.Is(err, common.ErrNoCredential) {
			// not connected, nothing to do
			continue
		}
		results = append(results, res)
		if err != nil {
			errs = append(errs, err)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := printJSON(cmd.OutOrStdout(), results); err != nil {
		return err
	}
	return errors.Join(errs...)
}
