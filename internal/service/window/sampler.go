package window

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

// DefaultMaxAttemptsPerSlot bounds the rejection sampling per slot. When the
// minimum gap saturates the window, slots that fail every attempt are skipped
// rather than erroring: under-delivery is an accepted degenerate outcome.
const DefaultMaxAttemptsPerSlot = 50

// Sampler draws wisdom fire times inside the daily active-hours window.
// It is pure computation over the injected clock value and random source.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
}

func NewSampler(rng *rand.Rand, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttemptsPerSlot
	}
	return &Sampler{
		rng:         rng,
		maxAttempts: maxAttempts,
	}
}

// Sample returns up to settings.DailyFrequency instants, sorted ascending,
// each strictly after now, inside the active-hours window, and at least
// settings.MinGap() away from every other returned instant.
func (s *Sampler) Sample(ctx context.Context, settings *domain.Settings, now time.Time) []time.Time {
	start, end := Bounds(settings, now)

	length := end.Sub(start)
	if length <= 0 {
		return nil
	}

	minGap := settings.MinGap()
	accepted := make([]time.Time, 0, settings.DailyFrequency)

	for slot := 0; slot < settings.DailyFrequency; slot++ {
		candidate, ok := s.drawSlot(start, length, now, minGap, accepted)
		if !ok {
			slog.DebugContext(ctx, "no valid instant found for slot, skipping",
				slog.Int("slot", slot),
				slog.Int("max_attempts", s.maxAttempts),
				slog.Time("window_start", start),
				slog.Time("window_end", end),
			)
			continue
		}
		accepted = append(accepted, candidate)
	}

	slices.SortFunc(accepted, time.Time.Compare)

	return accepted
}

func (s *Sampler) drawSlot(
	start time.Time,
	length time.Duration,
	now time.Time,
	minGap time.Duration,
	accepted []time.Time,
) (time.Time, bool) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate := start.Add(time.Duration(s.rng.Int64N(int64(length))))

		if !candidate.After(now) {
			continue
		}
		if !hasMinGap(candidate, accepted, minGap) {
			continue
		}

		return candidate, true
	}

	return time.Time{}, false
}

func hasMinGap(candidate time.Time, accepted []time.Time, minGap time.Duration) bool {
	for _, other := range accepted {
		gap := candidate.Sub(other)
		if gap < 0 {
			gap = -gap
		}
		if gap < minGap {
			return false
		}
	}
	return true
}
