package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
	"github.com/mindleaf/notification-scheduling/internal/observability/metrics"
	"github.com/mindleaf/notification-scheduling/internal/observability/tracing"
	"github.com/mindleaf/notification-scheduling/internal/service/nag"
	"github.com/mindleaf/notification-scheduling/internal/service/selector"
	"github.com/mindleaf/notification-scheduling/internal/service/window"
)

// Service regenerates the scheduled notification set from current settings
// and messages. Each pass treats the existing schedule as disposable:
// cancel everything of the pass's kind, then register a fresh set. There is
// never an incremental diff against the previous schedule, so stale entries
// cannot linger from a prior configuration.
//
// The mutex serializes passes; cancel-then-recreate requires exclusive access
// to the scheduled set.
type Service struct {
	messageStore    domain.MessageStore
	settingsStore   domain.SettingsStore
	sink            domain.NotificationSink
	messageSelector *selector.Selector
	sampler         *window.Sampler
	nagPlanner      *nag.Planner
	scheduleMetrics *metrics.ScheduleMetrics
	title           string
	channel         string

	mu sync.Mutex
}

func NewService(
	messageStore domain.MessageStore,
	settingsStore domain.SettingsStore,
	sink domain.NotificationSink,
	messageSelector *selector.Selector,
	sampler *window.Sampler,
	nagPlanner *nag.Planner,
	scheduleMetrics *metrics.ScheduleMetrics,
	title string,
	channel string,
) *Service {
	return &Service{
		messageStore:    messageStore,
		settingsStore:   settingsStore,
		sink:            sink,
		messageSelector: messageSelector,
		sampler:         sampler,
		nagPlanner:      nagPlanner,
		scheduleMetrics: scheduleMetrics,
		title:           title,
		channel:         channel,
	}
}

// Reschedule runs both regeneration passes. Pass failures are aggregated,
// not atomic: a partially registered schedule self-heals on the next call.
func (s *Service) Reschedule(ctx context.Context, now time.Time) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	wisdom, err := s.wisdomPass(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	nagResult, err := s.nagPass(ctx, now)
	if err != nil {
		errs = append(errs, err)
	}

	return &Result{
		Wisdom: wisdom,
		Nag:    nagResult,
	}, errors.Join(errs...)
}

// RunWisdomPass regenerates only the wisdom schedule.
func (s *Service) RunWisdomPass(ctx context.Context, now time.Time) (*PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wisdomPass(ctx, now)
}

// RunNagPass regenerates only the nag schedule.
func (s *Service) RunNagPass(ctx context.Context, now time.Time) (*PassResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nagPass(ctx, now)
}

func (s *Service) wisdomPass(ctx context.Context, now time.Time) (*PassResult, error) {
	start := time.Now()
	ctx, span := tracing.StartPassSpan(ctx, domain.KindWisdom.String(), now)
	defer span.End()
	defer func() {
		if s.scheduleMetrics != nil {
			s.scheduleMetrics.RecordPassDuration(ctx, domain.KindWisdom.String(), time.Since(start))
		}
	}()

	settings, err := s.settingsStore.GetSettings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load settings for wisdom pass",
			slog.String("error", err.Error()),
		)
		err = fmt.Errorf("load settings: %w", err)
		tracing.RecordPassResult(span, 0, 0, 0, err)
		return nil, err
	}

	result := &PassResult{Kind: domain.KindWisdom}

	var failures []error

	cancelled, err := s.cancelPendingKind(ctx, domain.KindWisdom)
	if err != nil {
		// Stale entries left behind here are replaced on the next pass.
		slog.WarnContext(ctx, "failed to cancel pending wisdom notifications",
			slog.String("error", err.Error()),
		)
		failures = append(failures, err)
	}
	result.CancelledCount = cancelled

	if !settings.NotificationsEnabled {
		slog.InfoContext(ctx, "notifications disabled, wisdom schedule cleared",
			slog.Int("cancelled_count", cancelled),
		)
		aggregate := errors.Join(failures...)
		tracing.RecordPassResult(span, cancelled, 0, 0, aggregate)
		return result, aggregate
	}

	messages, err := s.messageStore.ListMessages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list messages for wisdom pass",
			slog.String("error", err.Error()),
		)
		err = fmt.Errorf("list messages: %w", err)
		tracing.RecordPassResult(span, cancelled, 0, 0, err)
		return nil, err
	}

	candidates := wisdomCandidates(messages)
	if len(candidates) == 0 {
		slog.InfoContext(ctx, "no wisdom candidates, nothing to schedule")
		aggregate := errors.Join(failures...)
		tracing.RecordPassResult(span, cancelled, 0, 0, aggregate)
		return result, aggregate
	}

	fireTimes := s.sampler.Sample(ctx, settings, now)
	result.SkippedSlots = settings.DailyFrequency - len(fireTimes)
	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordSlotsSkipped(ctx, result.SkippedSlots)
	}

	for _, fireAt := range fireTimes {
		message, err := s.messageSelector.Select(candidates, now)
		if err != nil {
			failures = append(failures, fmt.Errorf("select message: %w", err))
			continue
		}

		notification := &domain.ScheduledNotification{
			ID:        domain.WisdomNotificationID(fireAt),
			Kind:      domain.KindWisdom,
			FireAt:    fireAt,
			MessageID: message.ID,
			Title:     s.title,
			Body:      message.Text,
			Channel:   s.channel,
		}

		if err := s.sink.Register(ctx, notification); err != nil {
			slog.WarnContext(ctx, "failed to register wisdom notification",
				slog.String("notification_id", notification.ID),
				slog.Time("fire_at", fireAt),
				slog.String("error", err.Error()),
			)
			if s.scheduleMetrics != nil {
				s.scheduleMetrics.RecordRegisterFailure(ctx, domain.KindWisdom.String())
			}
			failures = append(failures, fmt.Errorf("register %s: %w", notification.ID, err))
			continue
		}
		result.RegisteredCount++

		// Best effort: a failed write-back must not abort remaining slots.
		if _, err := s.messageStore.UpdateLastShown(ctx, message.ID, fireAt); err != nil {
			slog.WarnContext(ctx, "failed to record last shown time",
				slog.String("message_id", message.ID),
				slog.Time("fire_at", fireAt),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordCancelled(ctx, domain.KindWisdom.String(), cancelled)
		s.scheduleMetrics.RecordRegistered(ctx, domain.KindWisdom.String(), result.RegisteredCount)
	}

	aggregate := errors.Join(failures...)
	tracing.RecordPassResult(span, cancelled, result.RegisteredCount, result.SkippedSlots, aggregate)

	slog.InfoContext(ctx, "wisdom pass completed",
		slog.Int("cancelled_count", cancelled),
		slog.Int("registered_count", result.RegisteredCount),
		slog.Int("skipped_slots", result.SkippedSlots),
		slog.Int("candidate_count", len(candidates)),
	)

	return result, aggregate
}

func (s *Service) nagPass(ctx context.Context, now time.Time) (*PassResult, error) {
	start := time.Now()
	ctx, span := tracing.StartPassSpan(ctx, domain.KindNag.String(), now)
	defer span.End()
	defer func() {
		if s.scheduleMetrics != nil {
			s.scheduleMetrics.RecordPassDuration(ctx, domain.KindNag.String(), time.Since(start))
		}
	}()

	settings, err := s.settingsStore.GetSettings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load settings for nag pass",
			slog.String("error", err.Error()),
		)
		err = fmt.Errorf("load settings: %w", err)
		tracing.RecordPassResult(span, 0, 0, 0, err)
		return nil, err
	}

	result := &PassResult{Kind: domain.KindNag}

	var failures []error

	cancelled, err := s.cancelPendingKind(ctx, domain.KindNag)
	if err != nil {
		slog.WarnContext(ctx, "failed to cancel pending nag notifications",
			slog.String("error", err.Error()),
		)
		failures = append(failures, err)
	}
	result.CancelledCount = cancelled

	messages, err := s.messageStore.ListMessages(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list messages for nag pass",
			slog.String("error", err.Error()),
		)
		err = fmt.Errorf("list messages: %w", err)
		tracing.RecordPassResult(span, cancelled, 0, 0, err)
		return nil, err
	}

	for i := range messages {
		message := &messages[i]
		if !message.IsNagMe {
			continue
		}
		result.NagMessageCount++

		for _, fireAt := range s.nagPlanner.Plan(message, settings, now) {
			notification := &domain.ScheduledNotification{
				ID:        domain.NagNotificationID(message.ID, fireAt),
				Kind:      domain.KindNag,
				FireAt:    fireAt,
				MessageID: message.ID,
				Title:     s.title,
				Body:      message.Text,
				Channel:   s.channel,
			}

			if err := s.sink.Register(ctx, notification); err != nil {
				slog.WarnContext(ctx, "failed to register nag notification",
					slog.String("notification_id", notification.ID),
					slog.String("message_id", message.ID),
					slog.Time("fire_at", fireAt),
					slog.String("error", err.Error()),
				)
				if s.scheduleMetrics != nil {
					s.scheduleMetrics.RecordRegisterFailure(ctx, domain.KindNag.String())
				}
				failures = append(failures, fmt.Errorf("register %s: %w", notification.ID, err))
				continue
			}
			result.RegisteredCount++
		}
	}

	if s.scheduleMetrics != nil {
		s.scheduleMetrics.RecordCancelled(ctx, domain.KindNag.String(), cancelled)
		s.scheduleMetrics.RecordRegistered(ctx, domain.KindNag.String(), result.RegisteredCount)
	}

	aggregate := errors.Join(failures...)
	tracing.RecordPassResult(span, cancelled, result.RegisteredCount, 0, aggregate)

	slog.InfoContext(ctx, "nag pass completed",
		slog.Int("cancelled_count", cancelled),
		slog.Int("registered_count", result.RegisteredCount),
		slog.Int("nag_message_count", result.NagMessageCount),
	)

	return result, aggregate
}

func (s *Service) cancelPendingKind(ctx context.Context, kind domain.Kind) (int, error) {
	pending, err := s.sink.EnumeratePending(ctx)
	if err != nil {
		return 0, fmt.Errorf("enumerate pending notifications: %w", err)
	}

	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		if p.Kind == kind {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.sink.CancelByIDs(ctx, ids); err != nil {
		return 0, fmt.Errorf("cancel %s notifications: %w", kind, err)
	}

	return len(ids), nil
}

func wisdomCandidates(messages []domain.Message) []domain.Message {
	candidates := make([]domain.Message, 0, len(messages))
	for _, message := range messages {
		if !message.IsNagMe {
			candidates = append(candidates, message)
		}
	}
	return candidates
}
