package sink

import (
	"context"
	"testing"
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

func wisdomNotification(id string, fireAt time.Time) *domain.ScheduledNotification {
	return &domain.ScheduledNotification{
		ID:        id,
		Kind:      domain.KindWisdom,
		FireAt:    fireAt,
		MessageID: "msg-1",
		Title:     "Mindleaf",
		Body:      "drink water",
		Channel:   "reminders",
	}
}

func TestMemorySink_RegisterAndEnumerate(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	if err := s.Register(ctx, wisdomNotification("b", base.Add(2*time.Hour))); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register(ctx, wisdomNotification("a", base)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	pending, err := s.EnumeratePending(ctx)
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("EnumeratePending() returned %d entries, want 2", len(pending))
	}
	if pending[0].ID != "a" || pending[1].ID != "b" {
		t.Errorf("EnumeratePending() order = [%s, %s], want [a, b]", pending[0].ID, pending[1].ID)
	}
}

func TestMemorySink_RegisterIsUpsert(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	fireAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	first := wisdomNotification("same-id", fireAt)
	second := wisdomNotification("same-id", fireAt)
	second.Body = "updated body"

	if err := s.Register(ctx, first); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register(ctx, second); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	pending, err := s.EnumeratePending(ctx)
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("EnumeratePending() returned %d entries, want 1", len(pending))
	}
	if pending[0].Body != "updated body" {
		t.Errorf("EnumeratePending() body = %q, want %q", pending[0].Body, "updated body")
	}
}

func TestMemorySink_RegisterNil(t *testing.T) {
	s := NewMemorySink()

	if err := s.Register(context.Background(), nil); err == nil {
		t.Error("Register(nil) error = nil, want error")
	}
}

func TestMemorySink_CancelByIDs(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Register(ctx, wisdomNotification(id, base)); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	if err := s.CancelByIDs(ctx, []string{"a", "c", "missing"}); err != nil {
		t.Fatalf("CancelByIDs() error = %v", err)
	}

	pending, err := s.EnumeratePending(ctx)
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "b" {
		t.Errorf("EnumeratePending() = %v, want only b", pending)
	}
}

func TestMemorySink_CancelAll(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"a", "b"} {
		if err := s.Register(ctx, wisdomNotification(id, base)); err != nil {
			t.Fatalf("Register() error = %v", err)
		}
	}

	if err := s.CancelAll(ctx); err != nil {
		t.Fatalf("CancelAll() error = %v", err)
	}

	pending, err := s.EnumeratePending(ctx)
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("EnumeratePending() returned %d entries after CancelAll, want 0", len(pending))
	}
}

func TestMemorySink_PendingCarriesKind(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()
	fireAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	nagNotification := &domain.ScheduledNotification{
		ID:        domain.NagNotificationID("msg-2", fireAt),
		Kind:      domain.KindNag,
		FireAt:    fireAt,
		MessageID: "msg-2",
		Body:      "stretch",
	}
	if err := s.Register(ctx, nagNotification); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	pending, err := s.EnumeratePending(ctx)
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("EnumeratePending() returned %d entries, want 1", len(pending))
	}
	if !pending[0].Kind.IsNag() {
		t.Errorf("EnumeratePending() kind = %s, want nag", pending[0].Kind)
	}
}
