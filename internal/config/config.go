// Package config resolves the bot settings from the environment, optional
// .env files and an optional TOML file. The environment wins over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type key struct {
	name string
	env  string
}

var (
	keyMastodonURL     = key{"mastodon.url", "MASTODON_URL"}
	keyMastodonKey     = key{"mastodon.key", "MASTODON_KEY"}
	keyMastodonTimeout = key{"mastodon.timeout", "MASTODON_TIMEOUT"}
	keyStreamIdle      = key{"mastodon.stream_idle_timeout", "MASTODON_STREAM_IDLE_TIMEOUT"}
	keyPocketURL       = key{"pocket.url", "POCKET_URL"}
	keyPocketAppToken  = key{"pocket.app_token", "POCKET_APP_TOKEN"}
	keyClientPocketURL = key{"pocket.client_url", "CLIENT_POCKET_URL"}
	keyHTTPAuthURL     = key{"http_auth.url", "HTTP_AUTH_URL"}
	keyHTTPAuthPort    = key{"http_auth.port", "HTTP_AUTH_PORT"}
	keySessionFile     = key{"session.file", "SESSION_FILE"}
	keyLogLevel        = key{"log.level", "LOG_LEVEL"}
	keyBotAppName      = key{"bot.app_name", "BOT_APP_NAME"}
	keyPendingAuthTTL  = key{"bot.pending_auth_ttl", "PENDING_AUTH_TTL"}
	keyPostRate        = key{"bot.post_rate", "POST_RATE"}
	keyPostBurst       = key{"bot.post_burst", "POST_BURST"}
)

var allKeys = []key{
	keyMastodonURL, keyMastodonKey, keyMastodonTimeout, keyStreamIdle,
	keyPocketURL, keyPocketAppToken, keyClientPocketURL,
	keyHTTPAuthURL, keyHTTPAuthPort, keySessionFile,
	keyLogLevel, keyBotAppName, keyPendingAuthTTL, keyPostRate, keyPostBurst,
}

// DefaultEnvFiles are read in order; none of them overrides a variable that is already set.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	MastodonURL     string
	MastodonKey     string
	MastodonTimeout time.Duration

	// StreamIdleTimeout replaces a stream connection that delivered no bytes for this long.
	StreamIdleTimeout time.Duration

	PocketURL       string
	PocketAppToken  string
	ClientPocketURL string

	HTTPAuthURL  string
	HTTPAuthPort int

	SessionFile string

	LogLevel       string
	BotAppName     string
	PendingAuthTTL time.Duration
	PostRate       float64
	PostBurst      int
}

type Options struct {
	// ConfigFile is an optional TOML file. Empty means environment only.
	ConfigFile string
	// EnvFiles defaults to DefaultEnvFiles when nil.
	EnvFiles []string
	Viper    *viper.Viper
	// Logger reports unreadable env files. Nil means slog.Default().
	Logger *slog.Logger
}

// Load reads every setting without checking required ones; call Validate for that.
func Load(opts Options) (Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = DefaultEnvFiles
	}
	if err := LoadEnvFiles(envFiles...); err != nil {
		logger := opts.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("config: skipped env file", "error", err)
	}

	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	v.SetDefault(keyMastodonTimeout.name, "60s")
	v.SetDefault(keyStreamIdle.name, "90s")
	v.SetDefault(keyLogLevel.name, "info")
	v.SetDefault(keyBotAppName.name, "PocketBot")
	v.SetDefault(keyPendingAuthTTL.name, "15m")
	v.SetDefault(keyPostRate.name, 1.0)
	v.SetDefault(keyPostBurst.name, 5)

	for _, k := range allKeys {
		if err := v.BindEnv(k.name, k.env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k.env, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	port, err := intValue(v, keyHTTPAuthPort)
	if err != nil {
		return Config{}, err
	}
	burst, err := intValue(v, keyPostBurst)
	if err != nil {
		return Config{}, err
	}

	return Config{
		MastodonURL:       strings.TrimSpace(v.GetString(keyMastodonURL.name)),
		MastodonKey:       strings.TrimSpace(v.GetString(keyMastodonKey.name)),
		MastodonTimeout:   v.GetDuration(keyMastodonTimeout.name),
		StreamIdleTimeout: v.GetDuration(keyStreamIdle.name),
		PocketURL:         strings.TrimSpace(v.GetString(keyPocketURL.name)),
		PocketAppToken:    strings.TrimSpace(v.GetString(keyPocketAppToken.name)),
		ClientPocketURL:   strings.TrimSpace(v.GetString(keyClientPocketURL.name)),
		HTTPAuthURL:       strings.TrimSpace(v.GetString(keyHTTPAuthURL.name)),
		HTTPAuthPort:      port,
		SessionFile:       strings.TrimSpace(v.GetString(keySessionFile.name)),
		LogLevel:          v.GetString(keyLogLevel.name),
		BotAppName:        v.GetString(keyBotAppName.name),
		PendingAuthTTL:    v.GetDuration(keyPendingAuthTTL.name),
		PostRate:          v.GetFloat64(keyPostRate.name),
		PostBurst:         burst,
	}, nil
}

// LoadEnvFiles loads dotenv files that exist. Variables already in the environment
// are kept. Missing files are skipped; unreadable or malformed ones are reported
// and the remaining files are still loaded.
func LoadEnvFiles(files ...string) error {
	var errs []error
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks everything the long-running bot needs and names every missing setting at once.
func (c Config) Validate() error {
	var missing []string
	required := []struct {
		k     key
		value string
	}{
		{keyMastodonURL, c.MastodonURL},
		{keyMastodonKey, c.MastodonKey},
		{keyPocketURL, c.PocketURL},
		{keyPocketAppToken, c.PocketAppToken},
		{keyClientPocketURL, c.ClientPocketURL},
		{keyHTTPAuthURL, c.HTTPAuthURL},
		{keySessionFile, c.SessionFile},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.k.env)
		}
	}
	if c.HTTPAuthPort == 0 {
		missing = append(missing, keyHTTPAuthPort.env)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	var errs []error
	for _, u := range []struct {
		k     key
		value string
	}{
		{keyMastodonURL, c.MastodonURL},
		{keyPocketURL, c.PocketURL},
		{keyClientPocketURL, c.ClientPocketURL},
		{keyHTTPAuthURL, c.HTTPAuthURL},
	} {
		if err := validateURL(u.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.k.env, err))
		}
	}
	if c.HTTPAuthPort < 1 || c.HTTPAuthPort > 65535 {
		errs = append(errs, fmt.Errorf("%s: port %d out of range", keyHTTPAuthPort.env, c.HTTPAuthPort))
	}
	if c.StreamIdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", keyStreamIdle.env))
	}
	if c.PendingAuthTTL < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative", keyPendingAuthTTL.env))
	}
	if c.PostRate <= 0 {
		errs = append(errs, fmt.Errorf("%s: must be positive", keyPostRate.env))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", keyLogLevel.env, err))
	}
	return errors.Join(errs...)
}

// ValidateSessionFile is the subset needed by commands that only touch the session store.
func (c Config) ValidateSessionFile() error {
	if c.SessionFile == "" {
		return fmt.Errorf("missing required configuration: %s", keySessionFile.env)
	}
	return nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.HTTPAuthPort)
}

// ParseLevel maps debug|info|warn|error to a slog level. Empty means info.
func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(raw) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
	return level, nil
}

func intValue(v *viper.Viper, k key) (int, error) {
	raw := strings.TrimSpace(v.GetString(k.name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", k.env, raw)
	}
	return n, nil
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("url must use http or https")
	}
	if parsed.Host == "" {
		return errors.New("url host is required")
	}
	return nil
}
