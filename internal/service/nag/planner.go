package nag

import (
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/service/window"
)

// DefaultHorizon is how far ahead nag firings are expanded. The sequence
// length is bounded only by horizon/interval.
const DefaultHorizon = 24 * time.Hour

// Planner expands a nag message's fixed repeat interval into concrete fire
// times. Each step is pushed through the quiet-hours adjustment and the next
// step is derived from the adjusted instant, so a chain that crosses the end
// of active hours self-corrects into the next day's window instead of
// drifting outside it.
type Planner struct {
	horizon time.Duration
}

func NewPlanner(horizon time.Duration) *Planner {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	return &Planner{
		horizon: horizon,
	}
}

// Plan returns the ascending fire times for one nag message within the
// planning horizon from now. Non-nag messages and invalid intervals yield
// an empty plan.
func (p *Planner) Plan(message *domain.Message, settings *domain.Settings, now time.Time) []time.Time {
	if !message.IsNagMe || message.NagIntervalMinutes < domain.MinNagIntervalMinutes {
		return nil
	}

	interval := message.NagInterval()
	limit := now.Add(p.horizon)

	var times []time.Time
	next := window.AdjustIntoWindow(now.Add(interval), settings)
	for next.Before(limit) {
		times = append(times, next)
		next = window.AdjustIntoWindow(next.Add(interval), settings)
	}

	return times
}
