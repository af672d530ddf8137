package schedule

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/infra/sink"
	"github.com/mindleaf/notification-scheduling/internal/service/nag"
	"github.com/mindleaf/notification-scheduling/internal/service/selector"
	"github.com/mindleaf/notification-scheduling/internal/service/window"
)

// createTestService creates a Service with deterministic randomness and the
// default scheduling constants.
func createTestService(
	messageStore domain.MessageStore,
	settingsStore domain.SettingsStore,
	notificationSink domain.NotificationSink,
) *Service {
	rng := rand.New(rand.NewPCG(3, 9))
	return NewService(
		messageStore,
		settingsStore,
		notificationSink,
		selector.New(rng),
		window.NewSampler(rng, 0),
		nag.NewPlanner(0),
		nil,
		"Mindleaf",
		"reminders",
	)
}

func enabledSettings() *domain.Settings {
	return &domain.Settings{
		NotificationsEnabled: true,
		DailyFrequency:       3,
		StartHour:            8,
		EndHour:              22,
		MinGapHours:          1,
	}
}

func wisdomMessage(id, text string) domain.Message {
	return domain.Message{
		ID:        id,
		Text:      text,
		Weight:    3,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func nagMessage(id string, intervalMinutes int) domain.Message {
	return domain.Message{
		ID:                 id,
		Text:               "take a break",
		Weight:             3,
		IsNagMe:            true,
		NagIntervalMinutes: intervalMinutes,
		CreatedAt:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func prefill(t *testing.T, memorySink *sink.MemorySink, notifications ...*domain.ScheduledNotification) {
	t.Helper()
	for _, n := range notifications {
		if err := memorySink.Register(context.Background(), n); err != nil {
			t.Fatalf("failed to prefill sink: %v", err)
		}
	}
}

func TestWisdomPass_DisabledCancelsAndRegistersNone(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	settings := enabledSettings()
	settings.NotificationsEnabled = false
	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(settings, nil)

	memorySink := sink.NewMemorySink()
	fireAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prefill(t, memorySink,
		&domain.ScheduledNotification{ID: domain.WisdomNotificationID(fireAt), Kind: domain.KindWisdom, FireAt: fireAt},
		&domain.ScheduledNotification{ID: domain.WisdomNotificationID(fireAt.Add(time.Hour)), Kind: domain.KindWisdom, FireAt: fireAt.Add(time.Hour)},
		&domain.ScheduledNotification{ID: domain.NagNotificationID("m-1", fireAt), Kind: domain.KindNag, FireAt: fireAt},
	)

	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunWisdomPass(context.Background(), now)
	if err != nil {
		t.Fatalf("RunWisdomPass() error = %v", err)
	}
	if result.CancelledCount != 2 {
		t.Errorf("CancelledCount = %d, want 2", result.CancelledCount)
	}
	if result.RegisteredCount != 0 {
		t.Errorf("RegisteredCount = %d, want 0", result.RegisteredCount)
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 1 || !pending[0].Kind.IsNag() {
		t.Errorf("pending after disabled pass = %v, want only the nag entry", pending)
	}
}

func TestWisdomPass_RegistersAndRecordsLastShown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{
		wisdomMessage("m-1", "drink water"),
		wisdomMessage("m-2", "stand up"),
		nagMessage("m-3", 60),
	}, nil)

	shownIDs := make(map[string]int)
	mockMessages.EXPECT().
		UpdateLastShown(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, shownAt time.Time) (*domain.Message, error) {
			shownIDs[id]++
			msg := wisdomMessage(id, "")
			msg.LastShown = &shownAt
			return &msg, nil
		}).
		AnyTimes()

	memorySink := sink.NewMemorySink()
	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunWisdomPass(context.Background(), now)
	if err != nil {
		t.Fatalf("RunWisdomPass() error = %v", err)
	}
	if result.RegisteredCount == 0 {
		t.Fatal("RegisteredCount = 0, want at least 1")
	}
	if result.RegisteredCount > 3 {
		t.Errorf("RegisteredCount = %d, want at most daily frequency 3", result.RegisteredCount)
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != result.RegisteredCount {
		t.Errorf("pending count = %d, want %d", len(pending), result.RegisteredCount)
	}

	windowStart := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	for _, p := range pending {
		if !p.Kind.IsWisdom() {
			t.Errorf("pending kind = %s, want wisdom", p.Kind)
		}
		if !strings.HasPrefix(p.ID, "wisdom-") {
			t.Errorf("pending id = %q, want wisdom- prefix", p.ID)
		}
		if !p.FireAt.After(now) || p.FireAt.Before(windowStart) || p.FireAt.After(windowEnd) {
			t.Errorf("pending fire_at %v outside (%v, %v]", p.FireAt, now, windowEnd)
		}
	}

	// Nag messages must never be selected for wisdom slots.
	if _, ok := shownIDs["m-3"]; ok {
		t.Error("nag message m-3 recorded as shown in wisdom pass")
	}

	total := 0
	for _, count := range shownIDs {
		total += count
	}
	if total != result.RegisteredCount {
		t.Errorf("UpdateLastShown calls = %d, want %d", total, result.RegisteredCount)
	}
}

func TestWisdomPass_RegisterFailureContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)
	mockSink := domain.NewMockNotificationSink(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{
		wisdomMessage("m-1", "drink water"),
	}, nil)
	mockMessages.EXPECT().
		UpdateLastShown(gomock.Any(), "m-1", gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	mockSink.EXPECT().EnumeratePending(gomock.Any()).Return(nil, nil)

	registerCalls := 0
	mockSink.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.ScheduledNotification) error {
			registerCalls++
			if registerCalls == 1 {
				return errors.New("bridge unavailable")
			}
			return nil
		}).
		AnyTimes()

	svc := createTestService(mockMessages, mockSettings, mockSink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunWisdomPass(context.Background(), now)
	if err == nil {
		t.Fatal("RunWisdomPass() error = nil, want aggregate failure")
	}
	if result == nil {
		t.Fatal("RunWisdomPass() result = nil, want partial result")
	}
	if result.RegisteredCount != registerCalls-1 {
		t.Errorf("RegisteredCount = %d, want %d (all but the failed registration)",
			result.RegisteredCount, registerCalls-1)
	}
}

func TestWisdomPass_StoreFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return(nil, errors.New("redis down"))

	svc := createTestService(mockMessages, mockSettings, sink.NewMemorySink())
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunWisdomPass(context.Background(), now)
	if err == nil {
		t.Fatal("RunWisdomPass() error = nil, want store failure")
	}
	if result != nil {
		t.Errorf("RunWisdomPass() result = %v, want nil", result)
	}
}

func TestWisdomPass_IdempotentCardinality(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil).Times(2)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{
		wisdomMessage("m-1", "drink water"),
		wisdomMessage("m-2", "stand up"),
	}, nil).Times(2)
	mockMessages.EXPECT().
		UpdateLastShown(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	memorySink := sink.NewMemorySink()
	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	first, err := svc.RunWisdomPass(context.Background(), now)
	if err != nil {
		t.Fatalf("first RunWisdomPass() error = %v", err)
	}
	second, err := svc.RunWisdomPass(context.Background(), now)
	if err != nil {
		t.Fatalf("second RunWisdomPass() error = %v", err)
	}

	// The schedule is replaced wholesale: the second pass cancels exactly
	// what the first registered, and only the fresh set remains pending.
	if second.CancelledCount != first.RegisteredCount {
		t.Errorf("second pass cancelled %d, want %d", second.CancelledCount, first.RegisteredCount)
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != second.RegisteredCount {
		t.Errorf("pending count = %d, want %d", len(pending), second.RegisteredCount)
	}
}

func TestNagPass_RegistersPlannedFirings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{
		wisdomMessage("m-1", "drink water"),
		nagMessage("m-2", 60),
	}, nil)

	memorySink := sink.NewMemorySink()
	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunNagPass(context.Background(), now)
	if err != nil {
		t.Fatalf("RunNagPass() error = %v", err)
	}
	if result.NagMessageCount != 1 {
		t.Errorf("NagMessageCount = %d, want 1", result.NagMessageCount)
	}

	// Hourly from 10:00 through 21:00, then next day 08:00 before the 24h
	// horizon ends at 09:00.
	if result.RegisteredCount != 13 {
		t.Errorf("RegisteredCount = %d, want 13", result.RegisteredCount)
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	for _, p := range pending {
		if !p.Kind.IsNag() {
			t.Errorf("pending kind = %s, want nag", p.Kind)
		}
		if !strings.HasPrefix(p.ID, "nag-m-2-") {
			t.Errorf("pending id = %q, want nag-m-2- prefix", p.ID)
		}
	}
}

func TestNagPass_ReplacesStaleNagEntriesOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{}, nil)

	memorySink := sink.NewMemorySink()
	fireAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prefill(t, memorySink,
		&domain.ScheduledNotification{ID: domain.NagNotificationID("deleted-msg", fireAt), Kind: domain.KindNag, FireAt: fireAt},
		&domain.ScheduledNotification{ID: domain.WisdomNotificationID(fireAt), Kind: domain.KindWisdom, FireAt: fireAt},
	)

	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.RunNagPass(context.Background(), now)
	if err != nil {
		t.Fatalf("RunNagPass() error = %v", err)
	}
	if result.CancelledCount != 1 {
		t.Errorf("CancelledCount = %d, want 1", result.CancelledCount)
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	if len(pending) != 1 || !pending[0].Kind.IsWisdom() {
		t.Errorf("pending after nag pass = %v, want only the wisdom entry", pending)
	}
}

func TestReschedule_RunsBothPasses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockMessages := domain.NewMockMessageStore(ctrl)
	mockSettings := domain.NewMockSettingsStore(ctrl)

	mockSettings.EXPECT().GetSettings(gomock.Any()).Return(enabledSettings(), nil).Times(2)
	mockMessages.EXPECT().ListMessages(gomock.Any()).Return([]domain.Message{
		wisdomMessage("m-1", "drink water"),
		nagMessage("m-2", 240),
	}, nil).Times(2)
	mockMessages.EXPECT().
		UpdateLastShown(gomock.Any(), "m-1", gomock.Any()).
		Return(nil, nil).
		AnyTimes()

	memorySink := sink.NewMemorySink()
	svc := createTestService(mockMessages, mockSettings, memorySink)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	result, err := svc.Reschedule(context.Background(), now)
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if result.Wisdom == nil || result.Nag == nil {
		t.Fatalf("Reschedule() result = %+v, want both passes", result)
	}
	if result.Wisdom.RegisteredCount == 0 {
		t.Error("wisdom pass registered nothing")
	}
	if result.Nag.RegisteredCount == 0 {
		t.Error("nag pass registered nothing")
	}

	pending, err := memorySink.EnumeratePending(context.Background())
	if err != nil {
		t.Fatalf("EnumeratePending() error = %v", err)
	}
	kinds := make(map[domain.Kind]int)
	for _, p := range pending {
		kinds[p.Kind]++
	}
	if kinds[domain.KindWisdom] != result.Wisdom.RegisteredCount {
		t.Errorf("pending wisdom = %d, want %d", kinds[domain.KindWisdom], result.Wisdom.RegisteredCount)
	}
	if kinds[domain.KindNag] != result.Nag.RegisteredCount {
		t.Errorf("pending nag = %d, want %d", kinds[domain.KindNag], result.Nag.RegisteredCount)
	}
}
