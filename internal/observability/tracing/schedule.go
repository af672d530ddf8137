package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/mindleaf/notification-scheduling/internal/service/schedule"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartPassSpan(ctx context.Context, kind string, now time.Time) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule."+kind+"_pass",
		trace.WithAttributes(
			attribute.String("pass.kind", kind),
			attribute.String("pass.now", now.Format(time.RFC3339)),
		),
	)
}

func RecordPassResult(span trace.Span, cancelled, registered, skipped int, err error) {
	span.SetAttributes(
		attribute.Int("pass.cancelled_count", cancelled),
		attribute.Int("pass.registered_count", registered),
		attribute.Int("pass.skipped_count", skipped),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
