package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// Run executes the complete simulation. It returns the report even when
// some runs violate an invariant; the error then wraps ErrViolation.
func Run(ctx context.Context, config *Config) (*Report, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	seed := config.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	report := &Report{Seed: seed, Settings: config.Settings}
	report.Stats.StartTime = time.Now()

	logger.Get().Info(ctx, "starting draft simulation",
		logger.Int("runs", config.Runs),
		logger.Int("workers", config.Workers),
		logger.Int("teams", config.Settings.TeamsCount),
		logger.Int("perTeam", config.Settings.TeammatesPerTeam),
		logger.Float64("minScore", config.Settings.MinScore),
		logger.Float64("maxScore", config.Settings.MaxScore),
		logger.String("order", string(config.OrderMode)),
		logger.Any("seed", seed),
		logger.String("baseURL", config.BaseURL))

	// Step 1: Run drafts
	var err error
	if config.BaseURL != "" {
		report.Results, err = runRemote(ctx, config, seed)
	} else {
		report.Results, err = runLocal(ctx, config, seed)
	}
	if err != nil {
		return nil, err
	}

	// Step 2: Summarize
	report.Stats = summarize(report.Results, report.Stats.StartTime)
	displayFinalStats(&report.Stats)

	// Step 3: Write artifacts
	if config.ChartFile != "" {
		if err := WriteChart(config.ChartFile, report); err != nil {
			logger.Get().Warn(ctx, "failed to write chart", logger.Error(err))
		} else {
			logger.Get().Info(ctx, "chart written", logger.String("filename", config.ChartFile))
		}
	}
	if config.ReportFile != "" {
		if err := saveReport(config.ReportFile, report); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		} else {
			logger.Get().Info(ctx, "report saved", logger.String("filename", config.ReportFile))
		}
	}

	if report.Stats.Violations > 0 {
		return report, fmt.Errorf("%w in %d of %d runs", ErrViolation, report.Stats.Violations, report.Stats.Runs)
	}
	logger.Get().Info(ctx, "simulation completed successfully")
	return report, nil
}

// runLocal fans runs out to a pool of workers, each driving its own engine.
func runLocal(ctx context.Context, config *Config, seed uint64) ([]RunResult, error) {
	results := make([]RunResult, config.Runs)
	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var done int64

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range jobs {
				results[run] = simulateRun(ctx, config, seed, run)
				n := atomic.AddInt64(&done, 1)
				if config.Verbose {
					logRun(ctx, &results[run], n, config.Runs)
				}
			}
		}()
	}

	var err error
dispatch:
	for run := 0; run < config.Runs; run++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- run:
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("simulation interrupted after %d runs: %w", atomic.LoadInt64(&done), err)
	}
	return results, nil
}

// simulateRun drafts one generated pool on a fresh engine.
func simulateRun(ctx context.Context, config *Config, seed uint64, run int) RunResult {
	start := time.Now()
	poolSrc, selSrc, orderSrc := streams(seed, run)
	candidates := GeneratePool(rand.New(poolSrc), config.poolSize(), config.ScoreMin, config.ScoreMax)

	eng := draft.New(
		draft.WithSelector(selection.NewSoftmax(
			selection.WithTemperature(config.Temperature),
			selection.WithSource(selSrc),
		)),
		draft.WithOrderMode(config.OrderMode),
		draft.WithOrderSource(orderSrc),
		draft.WithMaxAttempts(config.MaxAttempts),
	)

	res := RunResult{Run: run}
	if err := eng.SetCandidates(candidates); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := eng.Load(config.Settings); err != nil {
		res.Error = err.Error()
		return res
	}

	out := eng.SolveRemaining(ctx, config.MaxAttempts)
	res.Attempts = out.Attempts
	res.Success = out.Success
	if out.Err != nil {
		res.Error = out.Err.Error()
	}
	teams := eng.Teams()
	if out.Success {
		if err := Verify(config.Settings, candidates, teams, eng.Pool()); err != nil {
			res.Violation = true
			res.Error = err.Error()
		}
	}
	res.Scores = teamScores(teams)
	res.Spread = spread(res.Scores)
	res.Duration = time.Since(start)
	return res
}

// summarize folds run results into statistics.
func summarize(results []RunResult, started time.Time) Stats {
	stats := Stats{Runs: len(results), StartTime: started, EndTime: time.Now()}
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	var attempts, spreads float64
	for i, r := range results {
		switch {
		case r.Violation:
			stats.Violations++
		case r.Success:
			stats.Succeeded++
			spreads += r.Spread
		case r.Attempts > 0:
			stats.Exhausted++
		default:
			stats.Failed++
		}
		if i == 0 || r.Attempts < stats.MinAttempts {
			stats.MinAttempts = r.Attempts
		}
		stats.MaxAttempts = max(stats.MaxAttempts, r.Attempts)
		attempts += float64(r.Attempts)
	}
	if stats.Runs > 0 {
		stats.MeanAttempts = attempts / float64(stats.Runs)
	}
	if stats.Succeeded > 0 {
		stats.MeanSpread = spreads / float64(stats.Succeeded)
	}
	return stats
}

func logRun(ctx context.Context, r *RunResult, done int64, total int) {
	fields := []logger.Field{
		logger.Int("run", r.Run),
		logger.Any("done", done),
		logger.Int("total", total),
		logger.Int("attempts", r.Attempts),
		logger.Bool("success", r.Success),
		logger.Float64("spread", r.Spread),
		logger.Duration("elapsed", r.Duration),
	}
	if r.Error != "" {
		logger.Get().Warn(ctx, "run finished", append(fields, logger.String("error", r.Error))...)
		return
	}
	logger.Get().Info(ctx, "run finished", fields...)
}

// saveReport writes the report as indented JSON.
func saveReport(filename string, report *Report) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Join(fmt.Errorf("failed to encode report: %w", err), file.Close())
	}
	return file.Close()
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var runsPerSecond float64
	if stats.Duration > 0 {
		runsPerSecond = float64(stats.Runs) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("runs", stats.Runs),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("exhausted", stats.Exhausted),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Int("minAttempts", stats.MinAttempts),
		logger.Int("maxAttempts", stats.MaxAttempts),
		logger.Float64("meanAttempts", stats.MeanAttempts),
		logger.Float64("meanSpread", stats.MeanSpread),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", stats.SuccessRate()),
		logger.Float64("runsPerSecond", runsPerSecond))
}
