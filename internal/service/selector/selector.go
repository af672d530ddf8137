package selector

import (
	"math/rand/v2"
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

const (
	// NoveltyWindow is how long a default-weight message counts as new.
	NoveltyWindow = 14 * 24 * time.Hour

	// NoveltyBoost is the multiplier applied to the weight of a
	// default-weight message inside its novelty window.
	NoveltyBoost = 1.5
)

// Selector picks one message from a candidate set by weighted random draw.
// Selection is with replacement: callers invoke Select once per desired fire
// time, independently.
type Selector struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Selector {
	return &Selector{
		rng: rng,
	}
}

// EffectiveWeight returns the message's selection weight after novelty
// boosting. Only messages left at the default weight are boosted; a weight
// the user set explicitly to any other value is taken as-is.
func EffectiveWeight(message *domain.Message, now time.Time) float64 {
	weight := float64(message.Weight)
	if message.Weight == domain.WeightDefault && message.Age(now) < NoveltyWindow {
		weight *= NoveltyBoost
	}
	return weight
}

// Select draws one message with probability proportional to its effective
// weight. Returns domain.ErrNoCandidates on an empty input.
func (s *Selector) Select(candidates []domain.Message, now time.Time) (*domain.Message, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	total := 0.0
	for i := range candidates {
		total += EffectiveWeight(&candidates[i], now)
	}

	remainder := s.rng.Float64() * total
	for i := range candidates {
		remainder -= EffectiveWeight(&candidates[i], now)
		if remainder <= 0 {
			return &candidates[i], nil
		}
	}

	// Rounding can exhaust the walk without a hit; fall back to the first
	// candidate rather than failing.
	return &candidates[0], nil
}
