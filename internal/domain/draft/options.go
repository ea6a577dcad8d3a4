package draft

import (
	"math/rand/v2"

	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// DefaultMaxAttempts bounds SolveRemaining when no budget is given.
const DefaultMaxAttempts = 1000

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSelector replaces the default softmax selector.
func WithSelector(s selection.Selector) Option {
	return func(e *Engine) {
		if s != nil {
			e.selector = s
		}
	}
}

// WithOrderMode sets how the pick order is generated at Load.
func WithOrderMode(m order.Mode) Option {
	return func(e *Engine) {
		if m != "" {
			e.mode = m
		}
	}
}

// WithOrderSource makes random order generation reproducible.
func WithOrderSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.orderRng = rand.New(src)
		}
	}
}

// WithMaxAttempts sets the default solver budget.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}
