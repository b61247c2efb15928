// Package config loads runtime settings from an optional .env file and
// DURAK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	engine "github.com/rsaeta/durak/engine"
)

// Store drivers.
const (
	StoreNone     = "none"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds all runtime settings. Command-line flags override it.
type Config struct {
	Seed             uint64 `env:"DURAK_SEED" envDefault:"1"`
	Games            int    `env:"DURAK_GAMES" envDefault:"1000"`
	Workers          int    `env:"DURAK_WORKERS" envDefault:"0"` // 0 means one per CPU
	HandSize         uint8  `env:"DURAK_HAND_SIZE" envDefault:"6"`
	MaxTableCards    uint8  `env:"DURAK_MAX_TABLE_CARDS" envDefault:"6"`
	LowestTrumpLeads bool   `env:"DURAK_LOWEST_TRUMP_LEADS" envDefault:"true"`

	LogLevel  string `env:"DURAK_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"DURAK_LOG_FORMAT" envDefault:"text"`

	StoreDriver string        `env:"DURAK_STORE" envDefault:"sqlite"`
	StoreDSN    string        `env:"DURAK_STORE_DSN" envDefault:"durak.db"`
	SnapshotTTL time.Duration `env:"DURAK_SNAPSHOT_TTL" envDefault:"24h"`
}

// Load reads the given .env files (or ./.env when none are named) and then
// parses the environment. A missing default .env is not an error; existing
// environment variables win over file values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(cfg.StoreDriver)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Games < 0 {
		return fmt.Errorf("config: games must be >= 0, got %d", c.Games)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	if c.HandSize == 0 || int(c.HandSize) >= engine.DeckSize/2 {
		return fmt.Errorf("config: hand size %d out of range [1,%d)", c.HandSize, engine.DeckSize/2)
	}
	if c.MaxTableCards == 0 || c.MaxTableCards > engine.MaxTable {
		return fmt.Errorf("config: max table cards %d out of range [1,%d]", c.MaxTableCards, engine.MaxTable)
	}
	switch c.StoreDriver {
	case StoreNone, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	return nil
}

// Rules returns the engine house rules described by c.
func (c Config) Rules() engine.HouseRules {
	return engine.HouseRules{
		HandSize:         c.HandSize,
		MaxTableCards:    c.MaxTableCards,
		LowestTrumpLeads: c.LowestTrumpLeads,
	}
}
