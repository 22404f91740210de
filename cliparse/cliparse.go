package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Civil day used to cap voting, e.g. America/Toronto.
	Timezone       string
	Location       *time.Location
	DailyPollCount int

	WorldIDAppID    string
	WorldIDActionID string
	WorldIDAPIKey   string
	WorldIDEndpoint string
	RequireOrb      bool
	VerifyTimeout   time.Duration

	// 0 disables the background advancer; reads still advance.
	AdvanceInterval time.Duration

	AdminToken  string
	LogSalt     string
	LogLevel    string
	CORSOrigins []string
}

// Environment variable consulted for each flag the command line left unset.
var envKeys = map[string]string{
	"port":              "PORT",
	"database-url":      "DATABASE_URL",
	"database-type":     "DATABASE_TYPE",
	"timezone":          "POLL_TIMEZONE",
	"daily-polls":       "DAILY_POLL_COUNT",
	"worldid-app-id":    "WLD_APP_ID",
	"worldid-action-id": "WLD_ACTION_ID_VOTE",
	"worldid-api-key":   "WLD_API_KEY",
	"worldid-endpoint":  "WLD_VERIFY_ENDPOINT",
	"require-orb":       "REQUIRE_ORB_VERIFICATION",
	"verify-timeout":    "VERIFY_TIMEOUT",
	"advance-interval":  "ADVANCE_INTERVAL",
	"admin-token":       "ADMIN_TOKEN",
	"log-salt":          "LOG_SALT",
	"log-level":         "LOG_LEVEL",
	"cors-origins":      "CORS_ORIGINS",
}

// ParseFlags reads flags, then the environment (optionally seeded from an
// .env file), then defaults, and validates the result.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	flags := pflag.NewFlagSet("humanpoll", pflag.ContinueOnError)

	// Network and storage
	flags.IntVarP(&cfg.Port, "port", "p", 3318, "Server port")
	flags.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL")
	flags.StringVarP(&cfg.DatabaseType, "database-type", "t", "postgres", "Database type (postgres or sqlite)")
	flags.StringVar(&envFile, "env-file", ".env", "Optional file of KEY=value lines loaded into the environment")

	// Poll cycle
	flags.StringVar(&cfg.Timezone, "timezone", "America/Toronto", "IANA timezone of the daily voting cycle")
	flags.IntVar(&cfg.DailyPollCount, "daily-polls", 1, "Live polls shown per day (1 or 2)")
	flags.DurationVar(&cfg.AdvanceInterval, "advance-interval", time.Minute, "Background lifecycle advance interval (0 disables)")

	// Proof of personhood
	flags.StringVar(&cfg.WorldIDAppID, "worldid-app-id", "", "World ID app id")
	flags.StringVar(&cfg.WorldIDActionID, "worldid-action-id", "", "World ID action id for votes")
	flags.StringVar(&cfg.WorldIDAPIKey, "worldid-api-key", "", "World ID API key (prefer env)")
	flags.StringVar(&cfg.WorldIDEndpoint, "worldid-endpoint", "https://developer.worldcoin.org", "World ID API base URL")
	flags.BoolVar(&cfg.RequireOrb, "require-orb", false, "Only accept orb-level proofs")
	flags.DurationVar(&cfg.VerifyTimeout, "verify-timeout", 10*time.Second, "Proof verification timeout")

	// Operations (secrets: prefer env)
	flags.StringVar(&cfg.AdminToken, "admin-token", "", "Admin token; admin routes are disabled when empty")
	flags.StringVar(&cfg.LogSalt, "log-salt", "", "Salt for nullifier fingerprints in logs")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringSliceVar(&cfg.CORSOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	// Fall back to environment variables
	var envErr error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := envKeys[f.Name]
		if !ok || f.Changed || envErr != nil {
			return
		}
		if value, set := os.LookupEnv(key); set && value != "" {
			if err := flags.Set(f.Name, value); err != nil {
				envErr = fmt.Errorf("invalid %s env variable: %w", key, err)
			}
		}
	})
	if envErr != nil {
		return Config{}, envErr
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (cfg Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	return level, nil
}

func (cfg *Config) validate() error {
	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if cfg.DailyPollCount != 1 && cfg.DailyPollCount != 2 {
		return errors.New("daily poll count must be 1 or 2")
	}

	if cfg.VerifyTimeout <= 0 {
		return errors.New("verify timeout must be positive")
	}

	if cfg.AdvanceInterval < 0 {
		return errors.New("advance interval cannot be negative")
	}

	// Secrets - MUST be provided
	if cfg.WorldIDAppID == "" || cfg.WorldIDActionID == "" {
		return errors.New("WLD_APP_ID and WLD_ACTION_ID_VOTE required")
	}

	if cfg.LogSalt == "" {
		return errors.New("LOG_SALT required")
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return err
	}

	return nil
}
