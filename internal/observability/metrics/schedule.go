package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	scheduleMeterName = "schedule.service"
)

type ScheduleMetrics struct {
	notificationsRegistered metric.Int64Counter
	notificationsCancelled  metric.Int64Counter
	registerFailures        metric.Int64Counter
	slotsSkipped            metric.Int64Counter
	passDuration            metric.Float64Histogram
}

func NewScheduleMetrics() (*ScheduleMetrics, error) {
	meter := otel.Meter(scheduleMeterName)

	notificationsRegistered, err := meter.Int64Counter(
		"schedule_notifications_registered_total",
		metric.WithDescription("Total number of notifications registered with the sink"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	notificationsCancelled, err := meter.Int64Counter(
		"schedule_notifications_cancelled_total",
		metric.WithDescription("Total number of pending notifications cancelled during regeneration"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	registerFailures, err := meter.Int64Counter(
		"schedule_register_failures_total",
		metric.WithDescription("Total number of sink registrations that failed"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	slotsSkipped, err := meter.Int64Counter(
		"schedule_slots_skipped_total",
		metric.WithDescription("Wisdom slots skipped because rejection sampling saturated"),
		metric.WithUnit("{slot}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"schedule_pass_duration_seconds",
		metric.WithDescription("Regeneration pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ScheduleMetrics{
		notificationsRegistered: notificationsRegistered,
		notificationsCancelled:  notificationsCancelled,
		registerFailures:        registerFailures,
		slotsSkipped:            slotsSkipped,
		passDuration:            passDuration,
	}, nil
}

func (m *ScheduleMetrics) RecordRegistered(ctx context.Context, kind string, count int) {
	m.notificationsRegistered.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

func (m *ScheduleMetrics) RecordCancelled(ctx context.Context, kind string, count int) {
	m.notificationsCancelled.Add(ctx, int64(count),
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

func (m *ScheduleMetrics) RecordRegisterFailure(ctx context.Context, kind string) {
	m.registerFailures.Add(ctx, 1,
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}

func (m *ScheduleMetrics) RecordSlotsSkipped(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.slotsSkipped.Add(ctx, int64(count))
}

func (m *ScheduleMetrics) RecordPassDuration(ctx context.Context, kind string, d time.Duration) {
	m.passDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("kind", kind)),
	)
}
