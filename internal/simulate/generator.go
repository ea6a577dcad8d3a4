package simulate

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// GeneratePool draws n candidates with scores uniform in [lo, hi], rounded
// to one decimal like a hand-kept sheet. IDs follow generation order.
func GeneratePool(rng *rand.Rand, n int, lo, hi float64) []model.Candidate {
	pool := make([]model.Candidate, n)
	for i := range pool {
		score := lo + rng.Float64()*(hi-lo)
		pool[i] = model.Candidate{
			ID:    i,
			Name:  fmt.Sprintf("P%03d-%s", i, uuid.NewString()[:8]),
			Score: math.Round(score*scoreScale) / scoreScale,
		}
	}
	return pool
}

// streams derives independent generator seeds for one run so that pool,
// selector and order stay reproducible from the root seed.
func streams(seed uint64, run int) (pool, selector, order rand.Source) {
	base := uint64(run) * 3
	return rand.NewPCG(seed, base), rand.NewPCG(seed, base+1), rand.NewPCG(seed, base+2)
}
