package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/simulate"
)

// defaultSimTimeout bounds a whole simulation.
const defaultSimTimeout = 30 * time.Minute

func main() {
	os.Exit(run())
}

// run parses flags, runs the simulation and returns the exit code.
func run() int {
	defaults := simulate.DefaultConfig()
	var (
		runs        = flag.Int("runs", defaults.Runs, "Number of drafts to run")
		workers     = flag.Int("workers", defaults.Workers, "Number of concurrent local drafts")
		teams       = flag.Int("teams", defaults.Settings.TeamsCount, "Teams per draft")
		perTeam     = flag.Int("per-team", defaults.Settings.TeammatesPerTeam, "Teammates per team")
		minScore    = flag.Float64("min", defaults.Settings.MinScore, "Lowest allowed team score")
		maxScore    = flag.Float64("max", defaults.Settings.MaxScore, "Highest allowed team score")
		poolSize    = flag.Int("pool", 0, "Candidates per draft (default: exactly one per slot)")
		scoreMin    = flag.Float64("score-min", defaults.ScoreMin, "Lowest generated candidate score")
		scoreMax    = flag.Float64("score-max", defaults.ScoreMax, "Highest generated candidate score")
		temperature = flag.Float64("temperature", defaults.Temperature, "Softmax temperature")
		orderMode   = flag.String("order", string(defaults.OrderMode), "Pick order: linear, snake or random")
		attempts    = flag.Int("attempts", defaults.MaxAttempts, "Auto draft attempt budget per run")
		seed        = flag.Uint64("seed", 0, "Root seed; 0 picks one at random")
		baseURL     = flag.String("url", "", "Drive a running server instead of local engines")
		timeout     = flag.Duration("timeout", defaults.Timeout, "HTTP request timeout and per-run solve deadline")
		chartFile   = flag.String("chart", "", "Write an HTML bar chart of attempts per run")
		reportFile  = flag.String("report", "", "Write a JSON report of every run")
		logFile     = flag.String("log", "", "Also write log output to this file")
		verbose     = flag.Bool("verbose", false, "Log every run")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return 0
	}

	// Setup logging
	closeLog, err := simulate.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = closeLog() }()

	mode, err := order.ParseMode(*orderMode)
	if err != nil {
		os.Stderr.WriteString("Invalid order: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultSimTimeout)
	defer cancel()

	config := defaults
	config.Runs = *runs
	config.Workers = *workers
	config.Settings.TeamsCount = *teams
	config.Settings.TeammatesPerTeam = *perTeam
	config.Settings.MinScore = *minScore
	config.Settings.MaxScore = *maxScore
	config.PoolSize = *poolSize
	config.ScoreMin = *scoreMin
	config.ScoreMax = *scoreMax
	config.Temperature = *temperature
	config.OrderMode = mode
	config.MaxAttempts = *attempts
	config.Seed = *seed
	config.BaseURL = *baseURL
	config.Timeout = *timeout
	config.ChartFile = *chartFile
	config.ReportFile = *reportFile
	config.LogFile = *logFile
	config.Verbose = *verbose

	// Run the simulation
	if _, err := simulate.Run(ctx, &config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return 1
	}
	return 0
}
