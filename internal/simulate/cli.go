package simulate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// SetupLogging initializes the global logger and, when logFile is set,
// copies output to that file. The returned func closes the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile == "" {
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, file), logger.FormatText)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file.Close, nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`ViperDraft Simulation Tool
==========================

Runs many auto drafts on generated pools and reports how often every team
lands inside the score band.

Usage:
  go run ./cmd/draft-sim [options]

Options:
  -runs int
        Number of drafts to run (default 100)
  -workers int
        Number of concurrent local drafts (default CPU cores * 2)
  -teams int
        Teams per draft (default 20)
  -per-team int
        Teammates per team (default 3)
  -min float
        Lowest allowed team score (default 12)
  -max float
        Highest allowed team score (default 15)
  -pool int
        Candidates per draft (default: exactly one per slot)
  -score-min float
        Lowest generated candidate score (default 2)
  -score-max float
        Highest generated candidate score (default 7)
  -temperature float
        Softmax temperature (default 3)
  -order string
        Pick order: linear, snake or random (default "linear")
  -attempts int
        Auto draft attempt budget per run (default 1000)
  -seed uint
        Root seed; 0 picks one at random (default 0)
  -url string
        Drive a running server instead of local engines
  -timeout duration
        HTTP request timeout and per-run solve deadline (default 30s)
  -chart string
        Write an HTML bar chart of attempts per run
  -report string
        Write a JSON report of every run
  -log string
        Also write log output to this file
  -verbose
        Log every run
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run ./cmd/draft-sim

  # Reproducible snake drafts with a chart
  go run ./cmd/draft-sim -runs 500 -order snake -seed 42 -chart attempts.html

  # Drive a running server
  go run ./cmd/draft-sim -url http://localhost:9080 -runs 20 -verbose
`)
}
