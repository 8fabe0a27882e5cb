package cmd

import (
	"encoding/json"
	"fmt"

	sessionsrender "github.com/bnema/pocketbot/internal/adapters/render/sessions"
	"github.com/bnema/pocketbot/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and revoke stored Pocket sessions",
	}

	cmd.AddCommand(newSessionsListCmd(app), newSessionsForgetCmd(app))

	return cmd
}

func newSessionsListCmd(app *app) *cobra.Command {
	var (
		asJSON     bool
		showTokens bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users with a stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			store, err := app.openSessions(cfg, logger)
			if err != nil {
				return err
			}

			entries := store.List()
			if asJSON {
				identities := make([]domain.Identity, 0, len(entries))
				for _, entry := range entries {
					identities = append(identities, entry.Identity)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(identities)
			}

			rendered := app.sessionRenderer(entries, sessionsrender.RenderOptions{Path: store.Path(), ShowTokens: showTokens})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print identities as JSON")
	cmd.Flags().BoolVar(&showTokens, "show-tokens", false, "Print access tokens unmasked")

	return cmd
}

func newSessionsForgetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <identity>",
		Short: "Delete the stored session of a user",
		Long: `Delete the stored session of a user from the session file.

A running "pocketbot serve" keeps its own copy of the sessions and rewrites the
file on the next login or logout, which brings the forgotten session back.
Stop the bot before forgetting a session.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			store, err := app.openSessions(cfg, logger)
			if err != nil {
				return err
			}

			identity := domain.Identity(args[0])
			if !store.Exists(identity) {
				return fmt.Errorf("%s: %w", identity, domain.ErrSessionNotFound)
			}
			if err := store.Forget(identity); err != nil {
				return fmt.Errorf("forget session: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Forgot session for @%s\n", identity)
			return err
		},
	}
}
