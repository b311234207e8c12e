package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/prodtracker/internal/common"
	"github.com/dmitrijs2005/prodtracker/internal/server"
	"github.com/dmitrijs2005/prodtracker/internal/server/models"
	"github.com/dmitrijs2005/prodtracker/internal/server/sources"
	"github.com/spf13/cobra"
)

// NewConnectCommand creates the connect command group.
func NewConnectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Store credentials for a source",
	}
	cmd.AddCommand(newConnectCommitsCommand(rootOpts), newConnectCalendarCommand(rootOpts))
	return cmd
}

func newConnectCommitsCommand(rootOpts *RootOptions) *cobra.Command {
	var account string
	cmd := &cobra.Command{
		Use:   "commits",
		Short: "Store a personal access token for the commits source",
		Long: `Store a personal access token for the commits source. The token is read
from the terminal without echo, or from stdin when piped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(account) == "" {
				return fmt.Errorf("%w: --account is required", common.ErrValidation)
			}
			token, err := GetSecret(cmd.InOrStdin(), "Access token", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(token)
			if len(token) == 0 {
				return fmt.Errorf("%w: empty token", common.ErrValidation)
			}

			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				cred := &sources.Credential{AccessToken: string(token), Account: account}
				if err := app.Credentials.Save(ctx, rootOpts.Owner, models.SourceCommits, cred); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "commits connected as", account)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "account whose push events are synced")
	return cmd
}

func newConnectCalendarCommand(rootOpts *RootOptions) *cobra.Command {
	var state, code string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Connect the calendar source through OAuth consent",
		Long: `Without flags, print the consent URL. After approving, pass the state and
code parameters of the redirect back with --state and --code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				if code == "" && state == "" {
					u, err := app.Consent.AuthURL(rootOpts.Owner)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), u)
					return nil
				}
				if err := app.Consent.Complete(ctx, rootOpts.Owner, state, code); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "calendar connected")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "state parameter of the redirect")
	cmd.Flags().StringVar(&code, "code", "", "authorization code of the redirect")
	return cmd
}

// NewDisconnectCommand creates the disconnect command.
func NewDisconnectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <commits|calendar>",
		Short: "Forget the stored credential of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := models.ParseSource(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, rootOpts, func(ctx context.Context, app *server.App) error {
				return app.Credentials.Delete(ctx, rootOpts.Owner, src)
			})
		},
	}
}
