package draft

import (
	"context"
	"fmt"
	"time"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// SolveResult reports a SolveRemaining run.
type SolveResult struct {
	Attempts int
	Success  bool
	Err      error
}

// SolveRemaining fills every remaining pick. Each attempt starts over from
// the current cursor on a private copy of the board; the first attempt that
// reaches the end is committed. When all attempts fail the last partial
// attempt is committed and Err wraps ErrExhausted. A cancelled ctx is seen
// between attempts and commits nothing.
func (e *Engine) SolveRemaining(ctx context.Context, maxAttempts int) SolveResult {
	defer e.SetSolving(false)
	if !e.loaded {
		return SolveResult{Err: ErrNotLoaded}
	}
	if maxAttempts <= 0 {
		maxAttempts = e.maxAttempts
	}
	if e.board.cursor >= len(e.order) {
		e.refresh()
		e.status.Attempts = 0
		return SolveResult{Success: true}
	}

	start := time.Now()
	var last board
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			e.log.Info(ctx, "auto draft cancelled", logger.Int("attempts", attempt-1))
			e.status.Attempts = attempt - 1
			return SolveResult{Attempts: attempt - 1, Err: err}
		}
		scratch := e.board.clone()
		err := e.run(&scratch)
		if err == nil {
			e.board = scratch
			e.refresh()
			e.setMessage(fmt.Sprintf("Auto draft complete (%d attempts)", attempt), model.MessageSuccess)
			e.status.Attempts = attempt
			e.log.Info(ctx, "auto draft complete",
				logger.Int("attempts", attempt),
				logger.Duration("elapsed", time.Since(start)))
			return SolveResult{Attempts: attempt, Success: true}
		}
		last, lastErr = scratch, err
	}

	e.board = last
	e.refresh()
	err := fmt.Errorf("%w after %d attempts: %w", ErrExhausted, maxAttempts, lastErr)
	e.setMessage(fmt.Sprintf("Auto draft failed after %d attempts: %v", maxAttempts, lastErr), model.MessageError)
	e.status.Attempts = maxAttempts
	e.log.Warn(ctx, "auto draft exhausted",
		logger.Int("attempts", maxAttempts),
		logger.Int("cursor", e.board.cursor),
		logger.Error(lastErr))
	return SolveResult{Attempts: maxAttempts, Err: err}
}

// run picks on b until the order ends or a team is stuck.
func (e *Engine) run(b *board) error {
	for b.cursor < len(e.order) {
		t := e.order[b.cursor]
		c, err := e.choose(b, t)
		if err != nil {
			return err
		}
		b.place(t, c)
	}
	return nil
}
