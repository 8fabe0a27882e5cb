package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/pocketbot/internal/adapters/callback"
	"github.com/bnema/pocketbot/internal/adapters/mastodon"
	"github.com/bnema/pocketbot/internal/adapters/pocket"
	"github.com/bnema/pocketbot/internal/config"
	"github.com/spf13/cobra"
)

func newSetupCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Obtain the credentials the bot runs with",
	}

	cmd.AddCommand(newSetupPocketCmd(app), newSetupMastodonCmd(app))

	return cmd
}

func newSetupPocketCmd(app *app) *cobra.Command {
	var (
		consumerKey string
		pocketURL   string
		listenAddr  string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "pocket",
		Short: "Authorize a Pocket application and print its tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetupPocket(cmd, consumerKey, pocketURL, listenAddr, timeout)
		},
	}

	cmd.Flags().StringVar(&consumerKey, "consumer-key", "", "Pocket consumer key (prompted when empty)")
	cmd.Flags().StringVar(&pocketURL, "pocket-url", app.setup.PocketURL, "Pocket base URL")
	cmd.Flags().StringVar(&listenAddr, "listen", app.setup.ListenAddr, "Address of the temporary redirect listener")
	cmd.Flags().DurationVar(&timeout, "timeout", app.setup.Timeout, "How long to wait for the browser redirect")

	return cmd
}

func runSetupPocket(cmd *cobra.Command, consumerKey, pocketURL, listenAddr string, timeout time.Duration) error {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Create a Pocket application first: https://getpocket.com/developer/apps/new")

	if strings.TrimSpace(consumerKey) == "" {
		key, err := newPrompter(cmd).ask("Pocket consumer key: ", true)
		if err != nil {
			return fmt.Errorf("read consumer key: %w", err)
		}
		consumerKey = key
	}

	client, err := pocket.NewClient(pocket.Config{BaseURL: pocketURL, ConsumerKey: consumerKey})
	if err != nil {
		return err
	}

	listener, err := callback.StartOneShot(listenAddr)
	if err != nil {
		return fmt.Errorf("start redirect listener: %w", err)
	}
	defer func() { _ = listener.Close() }()

	redirectURI := listener.RedirectURI()
	requestToken, err := client.RequestToken(cmd.Context(), redirectURI)
	if err != nil {
		return fmt.Errorf("request pocket token: %w", err)
	}
	authURL, err := client.AuthorizeURL(requestToken, redirectURI)
	if err != nil {
		return fmt.Errorf("build authorization url: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Open this URL to authorize the application:\n%s\n", authURL)

	err = runRedirectWait(cmd.Context(), cmd.ErrOrStderr(), "Pocket", redirectURI, timeout, func(ctx context.Context) error {
		_, waitErr := listener.Wait(ctx, timeout)
		return waitErr
	})
	if err != nil {
		return fmt.Errorf("wait for pocket redirect: %w", err)
	}

	accessToken, err := client.ExchangeToken(cmd.Context(), requestToken)
	if err != nil {
		return fmt.Errorf("exchange pocket token: %w", err)
	}

	return printSettings(cmd,
		[][2]string{{"POCKET_APP_TOKEN", consumerKey}, {"POCKET_ACCESS_TOKEN", accessToken}},
		config.File{Pocket: &config.PocketSection{AppToken: consumerKey, AccessToken: accessToken}},
	)
}

func newSetupMastodonCmd(app *app) *cobra.Command {
	var (
		instanceURL string
		clientName  string
	)

	cmd := &cobra.Command{
		Use:   "mastodon",
		Short: "Register the bot application on a Mastodon instance and print its token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSetupMastodon(cmd, app, instanceURL, clientName)
		},
	}

	cmd.Flags().StringVar(&instanceURL, "url", "", "Mastodon instance URL (prompted when empty)")
	cmd.Flags().StringVar(&clientName, "client-name", "PocketBot", "Application name; must match BOT_APP_NAME")

	return cmd
}

func runSetupMastodon(cmd *cobra.Command, app *app, instanceURL, clientName string) error {
	out := cmd.OutOrStdout()
	prompt := newPrompter(cmd)

	if strings.TrimSpace(instanceURL) == "" {
		value, err := prompt.ask("Mastodon URL: ", false)
		if err != nil {
			return fmt.Errorf("read mastodon url: %w", err)
		}
		instanceURL = value
	}
	instanceURL = strings.TrimRight(strings.TrimSpace(instanceURL), "/")

	_, _ = fmt.Fprintf(out, "Creating an application on %s...\n", instanceURL)
	registered, err := mastodon.RegisterApp(cmd.Context(), app.httpClient, mastodon.AppRegistration{
		BaseURL:    instanceURL,
		ClientName: clientName,
		Website:    instanceURL,
	})
	if err != nil {
		return fmt.Errorf("register application: %w", err)
	}

	authURL, err := mastodon.AuthorizeURL(instanceURL, registered, "")
	if err != nil {
		return fmt.Errorf("build authorization url: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Open this URL and authorize the application:\n%s\n", authURL)

	code, err := prompt.ask("Code: ", false)
	if err != nil {
		return fmt.Errorf("read authorization code: %w", err)
	}

	token, err := mastodon.ExchangeCode(cmd.Context(), app.httpClient, mastodon.TokenExchangeRequest{
		BaseURL: instanceURL,
		App:     registered,
		Code:    code,
	})
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := mastodon.VerifyCredentials(cmd.Context(), app.httpClient, instanceURL, token); err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}

	return printSettings(cmd,
		[][2]string{{"MASTODON_URL", instanceURL}, {"MASTODON_KEY", token}},
		config.File{Mastodon: &config.MastodonSection{URL: instanceURL, Key: token}},
	)
}

func printSettings(cmd *cobra.Command, env [][2]string, file config.File) error {
	data, err := file.Marshal()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Operation completed! Add these settings to your .env file:")
	for _, kv := range env {
		_, _ = fmt.Fprintf(out, "%s=%s\n", kv[0], kv[1])
	}
	_, _ = fmt.Fprintln(out, "or to your TOML config file:")
	_, err = fmt.Fprint(out, string(data))
	return err
}
