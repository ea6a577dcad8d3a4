// Package selection picks one candidate out of a valid set with a
// temperature-scaled softmax over scores.
package selection

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// DefaultTemperature is used when no positive temperature is configured.
const DefaultTemperature = 3.0

// ErrEmptyCandidates is returned when Choose is called with nothing to choose from.
var ErrEmptyCandidates = errors.New("no candidates to choose from")

// Option applies a configuration option to the Softmax selector.
type Option func(*Softmax)

// WithTemperature sets the softmax temperature. Lower values favor high
// scores more strongly.
func WithTemperature(t float64) Option {
	return func(s *Softmax) {
		if t > 0 && !math.IsInf(t, 0) {
			s.temperature = t
		}
	}
}

// WithSource makes the selector draw from src instead of the process-wide
// generator. Intended for tests and reproducible simulations.
func WithSource(src rand.Source) Option {
	return func(s *Softmax) {
		if src != nil {
			s.rng = rand.New(src)
		}
	}
}

// Selector chooses one candidate from a non-empty valid set.
type Selector interface {
	Choose(valid []model.Candidate) (model.Candidate, error)
}

// Softmax implements Selector with weight(c) = exp(score(c)/temperature).
type Softmax struct {
	temperature float64
	rng         *rand.Rand // nil means the process-wide source
}

// NewSoftmax creates a selector with configuration options.
func NewSoftmax(opts ...Option) *Softmax {
	s := &Softmax{temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Temperature returns the configured temperature.
func (s *Softmax) Temperature() float64 { return s.temperature }

// Probabilities returns the normalized selection probability of each
// candidate in valid, in input order.
func (s *Softmax) Probabilities(valid []model.Candidate) []float64 {
	w, total := s.weights(valid)
	for i := range w {
		w[i] /= total
	}
	return w
}

// Choose draws one candidate from valid.
func (s *Softmax) Choose(valid []model.Candidate) (model.Candidate, error) {
	if len(valid) == 0 {
		return model.Candidate{}, ErrEmptyCandidates
	}
	w, total := s.weights(valid)

	var r float64
	if s.rng != nil {
		r = s.rng.Float64() * total
	} else {
		r = rand.Float64() * total
	}
	cum := 0.0
	for i, wi := range w {
		cum += wi
		if r < cum {
			return valid[i], nil
		}
	}
	// rounding left r at or past the final boundary
	return valid[len(valid)-1], nil
}

// weights are shifted by the maximum score so the largest weight is exactly
// 1; the normalized distribution is unchanged and exp cannot overflow.
func (s *Softmax) weights(valid []model.Candidate) ([]float64, float64) {
	maxScore := math.Inf(-1)
	for _, c := range valid {
		maxScore = math.Max(maxScore, c.Score)
	}
	w := make([]float64, len(valid))
	total := 0.0
	for i, c := range valid {
		w[i] = math.Exp((c.Score - maxScore) / s.temperature)
		total += w[i]
	}
	return w, total
}
