package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	sessionsrender "github.com/bnema/pocketbot/internal/adapters/render/sessions"
	"github.com/bnema/pocketbot/internal/adapters/sessions/jsonfile"
	"github.com/bnema/pocketbot/internal/config"
	"github.com/bnema/pocketbot/internal/domain"
	"github.com/bnema/pocketbot/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	configFile      string
	envFiles        []string
	sessionRenderer func([]domain.SessionEntry, sessionsrender.RenderOptions) string
	setup           setupConfig
	httpClient      *http.Client
	clock           ports.Clock
}

type setupConfig struct {
	PocketURL  string
	ListenAddr string
	Timeout    time.Duration
}

func wireApp() (*app, error) {
	return &app{
		envFiles:        config.DefaultEnvFiles,
		sessionRenderer: sessionsrender.Render,
		setup: setupConfig{
			PocketURL:  envOrDefault("POCKET_URL", "https://getpocket.com"),
			ListenAddr: envOrDefault("POCKETBOT_SETUP_LISTEN", "127.0.0.1:8000"),
			Timeout:    5 * time.Minute,
		},
		httpClient: &http.Client{Timeout: 30 * time.Second},
		clock:      ports.SystemClock{},
	}, nil
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: a.configFile,
		EnvFiles:   a.envFiles,
		Viper:      viper.New(),
	})
	if err != nil {
		return config.Config{}, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) openSessions(cfg config.Config, logger *slog.Logger) (*jsonfile.Store, error) {
	if err := cfg.ValidateSessionFile(); err != nil {
		return nil, err
	}
	store, err := jsonfile.NewStore(cfg.SessionFile, logger)
	if err != nil {
		return nil, fmt.Errorf("wire session store: %w", err)
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return store, nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
