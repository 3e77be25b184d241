package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	SessionSalt   string
	AdminEmail    string
	AdminPassword string
	VerifyDelay   time.Duration
	ApplyDelay    time.Duration
	RefreshSpec   string
	ExpectedVotes int
}

// ParseFlags validates flags and fills the config, falling back to
// environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var verifyMs, applyMs int

	fs := flag.NewFlagSet("sufragio", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Admin session salt (prefer env)")
	fs.StringVar(&cfg.AdminEmail, "admin-email", "", "Admin email (prefer env)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")

	// Pipeline tuning
	fs.IntVar(&verifyMs, "verify-delay-ms", -1, "Simulated verification delay in ms")
	fs.IntVar(&applyMs, "apply-delay-ms", -1, "Simulated apply delay in ms")
	fs.StringVar(&cfg.RefreshSpec, "refresh", "", "Results refresh cron spec (with seconds)")
	fs.IntVar(&cfg.ExpectedVotes, "expected-votes", 0, "Projected total ballots for participation rate")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4270 // default
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:sufragio.db"
	}

	// Secrets - MUST be provided
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}

	if cfg.AdminEmail == "" {
		cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	}
	if cfg.AdminEmail == "" {
		return Config{}, errors.New("ADMIN_EMAIL required")
	}

	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	// Pipeline tuning defaults mirror the legacy simulated delays
	if verifyMs < 0 {
		verifyMs = envInt("VERIFY_DELAY_MS", 1500)
	}
	if applyMs < 0 {
		applyMs = envInt("APPLY_DELAY_MS", 1000)
	}
	cfg.VerifyDelay = time.Duration(verifyMs) * time.Millisecond
	cfg.ApplyDelay = time.Duration(applyMs) * time.Millisecond

	if cfg.RefreshSpec == "" {
		cfg.RefreshSpec = os.Getenv("REFRESH_SPEC")
		if cfg.RefreshSpec == "" {
			cfg.RefreshSpec = "@every 5s"
		}
	}
	if cfg.ExpectedVotes == 0 {
		cfg.ExpectedVotes = envInt("EXPECTED_VOTES", 5000)
	}

	return cfg, nil
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
