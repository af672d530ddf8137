package domain

import "context"

//go:generate mockgen -source=sink.go -destination=sink_mock.go -package=domain

// NotificationSink is the platform capability to register and cancel
// time-triggered alerts. Register is an upsert keyed by notification ID.
// The scheduled set is disposable: the orchestrator replaces it wholesale
// on every regeneration pass.
type NotificationSink interface {
	EnumeratePending(ctx context.Context) ([]PendingNotification, error)
	Register(ctx context.Context, notification *ScheduledNotification) error
	CancelByIDs(ctx context.Context, ids []string) error
	CancelAll(ctx context.Context) error
}
