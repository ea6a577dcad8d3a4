// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env on top.
// - External errors must be wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Default draft settings used when a load request omits them.
	TeamsCount       int     `koanf:"teams_count"`
	TeammatesPerTeam int     `koanf:"teammates_per_team"`
	MinScore         float64 `koanf:"min_score"`
	MaxScore         float64 `koanf:"max_score"`

	// Temperature of the softmax selector. Lower values favor high scores.
	Temperature float64 `koanf:"temperature"`

	// MaxAttempts bounds one auto draft.
	MaxAttempts int `koanf:"max_attempts"`

	// OrderMode is linear, snake or random.
	OrderMode string `koanf:"order_mode"`

	// SolveQueueSize bounds pending auto draft jobs.
	SolveQueueSize int `koanf:"solve_queue_size"`

	// SnapshotDir holds session snapshots. Empty keeps them in memory.
	SnapshotDir string `koanf:"snapshot_dir"`

	// SessionID names the persisted draft session.
	SessionID string `koanf:"session_id"`

	// DedupeSize sets the size of the pick request-id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// RateLimit caps mutating HTTP requests per second; 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		TeamsCount:       20,
		TeammatesPerTeam: 3,
		MinScore:         12,
		MaxScore:         15,
		Temperature:      3.0,
		MaxAttempts:      1000,
		OrderMode:        string(order.Linear),
		SolveQueueSize:   8,
		SnapshotDir:      "",
		SessionID:        "default",
		DedupeSize:       10_000,
		RateLimit:        50,
		RateBurst:        20,
	}
}

// Settings returns the default draft settings.
func (c *Config) Settings() model.Settings {
	return model.Settings{
		TeamsCount:       c.TeamsCount,
		TeammatesPerTeam: c.TeammatesPerTeam,
		MinScore:         c.MinScore,
		MaxScore:         c.MaxScore,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TeamsCount <= 0 || c.TeammatesPerTeam <= 0:
		return fmt.Errorf("%w: teams_count and teammates_per_team must be positive", ErrInvalidConfig)
	case c.MinScore < 0 || c.MaxScore < c.MinScore:
		return fmt.Errorf("%w: score band [%g, %g] is invalid", ErrInvalidConfig, c.MinScore, c.MaxScore)
	case c.Temperature <= 0 || math.IsInf(c.Temperature, 0) || math.IsNaN(c.Temperature):
		return fmt.Errorf("%w: temperature must be positive", ErrInvalidConfig)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max_attempts must be positive", ErrInvalidConfig)
	case c.SolveQueueSize <= 0:
		return fmt.Errorf("%w: solve_queue_size must be positive", ErrInvalidConfig)
	case c.RateLimit < 0 || c.RateBurst < 0:
		return fmt.Errorf("%w: rate_limit and rate_burst must not be negative", ErrInvalidConfig)
	case strings.TrimSpace(c.SessionID) == "":
		return fmt.Errorf("%w: session_id must not be empty", ErrInvalidConfig)
	}
	if _, err := order.ParseMode(c.OrderMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
