package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/pocketbot/internal/adapters/callback"
	"github.com/bnema/pocketbot/internal/adapters/mastodon"
	"github.com/bnema/pocketbot/internal/adapters/pocket"
	"github.com/bnema/pocketbot/internal/application"
	"github.com/bnema/pocketbot/internal/config"
	"github.com/bnema/pocketbot/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const minSweepInterval = time.Second

func newServeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot: stream direct messages and notifications, answer consent callbacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, app, cfg, logger)
		},
	}
}

func runServe(ctx context.Context, app *app, cfg config.Config, logger *slog.Logger) error {
	store, err := app.openSessions(cfg, logger)
	if err != nil {
		return err
	}

	masto, err := mastodon.NewClient(mastodon.Config{
		BaseURL:           cfg.MastodonURL,
		AccessToken:       cfg.MastodonKey,
		Timeout:           cfg.MastodonTimeout,
		StreamIdleTimeout: cfg.StreamIdleTimeout,
		PostRate:          rate.Limit(cfg.PostRate),
		PostBurst:         cfg.PostBurst,
	}, logger)
	if err != nil {
		return fmt.Errorf("wire mastodon client: %w", err)
	}

	instance, err := masto.Verify(ctx)
	if err != nil {
		return fmt.Errorf("verify mastodon instance: %w", err)
	}
	logger.Info("serve: connected to instance", "domain", instance.Domain, "version", instance.Version)

	bookmarks, err := pocket.NewClient(pocket.Config{
		BaseURL:     cfg.PocketURL,
		ClientURL:   cfg.ClientPocketURL,
		ConsumerKey: cfg.PocketAppToken,
	})
	if err != nil {
		return fmt.Errorf("wire pocket client: %w", err)
	}

	pending := application.NewPendingRegistry(cfg.PendingAuthTTL, app.clock)
	auth, err := application.NewAuthorization(application.AuthorizationConfig{
		CallbackBaseURL: cfg.HTTPAuthURL,
		Bookmarks:       bookmarks,
		Sessions:        store,
		Pending:         pending,
		Poster:          masto,
		Clock:           app.clock,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("wire authorization: %w", err)
	}

	dispatcher, err := application.NewDispatcher(application.DispatcherConfig{
		AppName:       cfg.BotAppName,
		Poster:        masto,
		Bookmarks:     bookmarks,
		Sessions:      store,
		Authorization: auth,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("wire dispatcher: %w", err)
	}

	router := application.NewRouter(dispatcher, application.NewNotificationPolicy(masto, logger), logger)
	correlator := callback.NewCorrelator(pending, auth.Resume, logger)

	g, gctx := errgroup.WithContext(ctx)
	handle := func(event domain.StreamEvent) {
		_ = router.Handle(gctx, event)
	}

	g.Go(func() error {
		return correlator.ListenAndServe(gctx, cfg.ListenAddr())
	})
	g.Go(func() error {
		return masto.Stream(gctx, mastodon.DirectStreamPath, handle)
	})
	g.Go(func() error {
		return masto.Stream(gctx, mastodon.NotificationStreamPath, handle)
	})
	g.Go(func() error {
		return auth.RunSweeper(gctx, sweepInterval(cfg.PendingAuthTTL))
	})

	logger.Info("serve: running", "callback_addr", cfg.ListenAddr(), "sessions", len(store.List()))
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("serve: stopped")
	return nil
}

// sweepInterval checks a few times per TTL. Zero disables sweeping.
func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, minSweepInterval)
}
