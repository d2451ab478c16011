// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Parse environment variables (after .env has been loaded by main) into
//     a typed Config with defaults.
//   - Validate ranges the game core relies on.
//   - Derive the random seed from RANDOM_SEED.
//
// Notes:
//   - An empty RANDOM_SEED means a time-seeded run; any other string gives a
//     reproducible run (same words, same letter rain). "daily" gives the
//     same run to everyone on a given UTC day.

package config

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is everything the server reads from the environment.
type Config struct {
	Port      int    `env:"PORT"       envDefault:"5175"`
	Host      string `env:"HOST"       envDefault:"127.0.0.1"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ClientOrigin        string `env:"CLIENT_ORIGIN"         envDefault:"http://localhost:5173"`
	PresenterSecret     string `env:"PRESENTER_SECRET"      envDefault:"dev_secret_change_me"`
	PresenterTokenHours int    `env:"PRESENTER_TOKEN_HOURS" envDefault:"12"`

	CatalogFile string `env:"WORDS_CATALOG_FILE"`
	WordsDB     string `env:"WORDS_DB"`

	FPS          int     `env:"FPS"           envDefault:"60"`
	PoolSize     int     `env:"POOL_SIZE"     envDefault:"25"`
	ScreenWidth  float64 `env:"SCREEN_WIDTH"  envDefault:"1000"`
	ScreenHeight float64 `env:"SCREEN_HEIGHT" envDefault:"700"`

	MaxPenalties    int `env:"MAX_PENALTIES"     envDefault:"10"`
	HintCost        int `env:"HINT_COST"         envDefault:"5"`
	WrongLetterCost int `env:"WRONG_LETTER_COST" envDefault:"1"`

	SoundEnabled bool    `env:"SOUND_ENABLED" envDefault:"true"`
	MusicVolume  float64 `env:"MUSIC_VOLUME"  envDefault:"0.3"`

	RandomSeed string `env:"RANDOM_SEED"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("FPS %d out of range 1..240", c.FPS))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, fmt.Errorf("POOL_SIZE must be positive, got %d", c.PoolSize))
	}
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("screen %gx%g must be positive", c.ScreenWidth, c.ScreenHeight))
	}
	if c.MaxPenalties <= 0 || c.HintCost < 0 || c.WrongLetterCost < 0 {
		errs = append(errs, errors.New("MAX_PENALTIES must be positive and costs non-negative"))
	}
	if c.PresenterTokenHours <= 0 {
		errs = append(errs, fmt.Errorf("PRESENTER_TOKEN_HOURS must be positive, got %d", c.PresenterTokenHours))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return net.JoinHostPort(c.Host, strconv.Itoa(c.Port)) }

// TickInterval is the frame period.
func (c *Config) TickInterval() time.Duration { return time.Second / time.Duration(c.FPS) }

// PresenterTTL is the lifetime of a presenter token.
func (c *Config) PresenterTTL() time.Duration {
	return time.Duration(c.PresenterTokenHours) * time.Hour
}

// DailySeed is the RANDOM_SEED value that reseeds per UTC day.
const DailySeed = "daily"

// Seed returns the two PCG seed words. With RANDOM_SEED set they are taken
// from its SHA-256 ("daily" hashes today's UTC date instead); otherwise
// from now.
func (c *Config) Seed(now time.Time) (uint64, uint64) {
	key := c.RandomSeed
	switch key {
	case "":
		n := uint64(now.UnixNano())
		return n, n ^ 0x9e3779b97f4a7c15
	case DailySeed:
		key = "daily:" + now.UTC().Format("2006-01-02")
	}
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])
}
