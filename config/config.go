package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port           int      `env:"PORT" envDefault:"5000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,required,notEmpty" envSeparator:","`
	Debug          bool     `env:"DEBUG" envDefault:"false"`
	LogPretty      bool     `env:"LOG_PRETTY" envDefault:"false"`

	StorageDriver  string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	PostgresURL    string        `env:"POSTGRES_URL"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"werewolf.db"`
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`

	AdminJWTKey     string        `env:"ADMIN_JWT_KEY,required,notEmpty"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`

	NATSURL      string        `env:"NATS_URL"`
	VoiceTimeout time.Duration `env:"VOICE_TIMEOUT" envDefault:"2s"`
	TrackCatalog string        `env:"TRACK_CATALOG"`

	RoleActionDuration   time.Duration `env:"ROLE_ACTION_DURATION" envDefault:"10s"`
	RoleEndPause         time.Duration `env:"ROLE_END_PAUSE" envDefault:"1s"`
	DeliberationDuration time.Duration `env:"DELIBERATION_DURATION" envDefault:"5m"`
	VoteDuration         time.Duration `env:"VOTE_DURATION" envDefault:"30s"`
}

// Load parses the environment and checks the cross-field requirements.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverPostgres:
		if c.PostgresURL == "" {
			return errors.New("POSTGRES_URL is required with the postgres storage driver")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required with the sqlite storage driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if c.RoleActionDuration <= 0 || c.VoteDuration <= 0 || c.DeliberationDuration <= 0 {
		return errors.New("phase durations must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
