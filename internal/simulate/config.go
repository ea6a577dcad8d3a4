// Package simulate runs many drafts back to back and reports how often the
// solver lands every team inside the band. Drafts run on private engines,
// or against a live server when a base URL is set.
package simulate

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
)

var (
	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("invalid simulation config")
	// ErrViolation marks a completed draft that breaks a draft invariant.
	ErrViolation = errors.New("draft invariant violated")
	// ErrUnexpectedStatus is returned when the server answers with an
	// unexpected HTTP status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Config holds configuration for a simulation.
type Config struct {
	Runs        int            // Number of drafts to run
	Workers     int            // Concurrent local drafts
	Settings    model.Settings // Draft settings used by every run
	PoolSize    int            // Candidates per run; 0 means exactly one per slot
	ScoreMin    float64        // Lowest generated score
	ScoreMax    float64        // Highest generated score
	Temperature float64        // Softmax temperature
	OrderMode   order.Mode     // Pick order mode
	MaxAttempts int            // Solver budget per run
	Seed        uint64         // Root seed; 0 draws one at random
	BaseURL     string         // Live server to drive instead of local engines
	Timeout     time.Duration  // HTTP request timeout and per-run solve deadline
	ChartFile   string         // HTML chart of attempts per run
	ReportFile  string         // JSON report of every run
	LogFile     string         // Log file for simulation output
	Verbose     bool           // Log every run
}

// DefaultConfig returns a config for a 20-team, 3-player draft with a
// [12, 15] band and scores spread over [2, 7].
func DefaultConfig() Config {
	return Config{
		Runs:        100,
		Workers:     runtime.NumCPU() * WorkerChannelMultiplier,
		Settings:    model.Settings{TeamsCount: 20, TeammatesPerTeam: 3, MinScore: 12, MaxScore: 15},
		ScoreMin:    2,
		ScoreMax:    7,
		Temperature: selection.DefaultTemperature,
		OrderMode:   order.Linear,
		MaxAttempts: draft.DefaultMaxAttempts,
		Timeout:     30 * time.Second,
	}
}

// Validate checks the config can drive at least one run.
func (c *Config) Validate() error {
	if c.Runs <= 0 {
		return fmt.Errorf("%w: runs must be positive", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if err := draft.ValidateSettings(c.Settings); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.PoolSize != 0 && c.PoolSize < c.Settings.TotalSlots() {
		return fmt.Errorf("%w: pool of %d cannot fill %d slots", ErrInvalidConfig, c.PoolSize, c.Settings.TotalSlots())
	}
	if c.ScoreMin < 0 || c.ScoreMax < c.ScoreMin {
		return fmt.Errorf("%w: score range [%g, %g]", ErrInvalidConfig, c.ScoreMin, c.ScoreMax)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive", ErrInvalidConfig)
	}
	if c.BaseURL != "" && c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) poolSize() int {
	if c.PoolSize > 0 {
		return c.PoolSize
	}
	return c.Settings.TotalSlots()
}

// RunResult is the outcome of one draft.
type RunResult struct {
	Run       int           `json:"run"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Violation bool          `json:"violation,omitempty"`
	Scores    []float64     `json:"team_scores,omitempty"`
	Spread    float64       `json:"spread"`
	Duration  time.Duration `json:"duration_ns"`
	Error     string        `json:"error,omitempty"`
}

// Stats holds simulation statistics.
type Stats struct {
	Runs         int           `json:"runs"`
	Succeeded    int           `json:"succeeded"`
	Exhausted    int           `json:"exhausted"`
	Failed       int           `json:"failed"`
	Violations   int           `json:"violations"`
	MinAttempts  int           `json:"min_attempts"`
	MaxAttempts  int           `json:"max_attempts"`
	MeanAttempts float64       `json:"mean_attempts"`
	MeanSpread   float64       `json:"mean_spread"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration_ns"`
}

// SuccessRate returns the share of runs that completed, in percent.
func (s *Stats) SuccessRate() float64 {
	if s.Runs == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Runs) * PercentageMultiplier
}

// Report is everything a simulation produced.
type Report struct {
	Seed     uint64         `json:"seed"`
	Settings model.Settings `json:"settings"`
	Stats    Stats          `json:"stats"`
	Results  []RunResult    `json:"results"`
}
