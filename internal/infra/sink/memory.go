package sink

import (
	"context"
	"slices"
	"sync"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

// MemorySink keeps the scheduled set in process memory. It backs local runs
// when no notification bridge is configured, and tests.
type MemorySink struct {
	mu      sync.RWMutex
	pending map[string]domain.ScheduledNotification
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		pending: make(map[string]domain.ScheduledNotification),
	}
}

func (s *MemorySink) EnumeratePending(_ context.Context) ([]domain.PendingNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := make([]domain.PendingNotification, 0, len(s.pending))
	for _, n := range s.pending {
		pending = append(pending, domain.PendingNotification{
			ID:     n.ID,
			Kind:   n.Kind,
			FireAt: n.FireAt,
			Body:   n.Body,
		})
	}

	slices.SortFunc(pending, func(a, b domain.PendingNotification) int {
		return a.FireAt.Compare(b.FireAt)
	})

	return pending, nil
}

func (s *MemorySink) Register(_ context.Context, notification *domain.ScheduledNotification) error {
	if notification == nil {
		return ErrNilNotification
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[notification.ID] = *notification
	return nil
}

func (s *MemorySink) CancelByIDs(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.pending, id)
	}
	return nil
}

func (s *MemorySink) CancelAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = make(map[string]domain.ScheduledNotification)
	return nil
}
