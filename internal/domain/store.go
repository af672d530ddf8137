package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=domain

// MessageStore is the engine's read-mostly view of the user's messages.
// The engine never creates or deletes messages; the only write it performs
// is recording when a message was last surfaced.
type MessageStore interface {
	ListMessages(ctx context.Context) ([]Message, error)
	UpdateLastShown(ctx context.Context, id string, shownAt time.Time) (*Message, error)
}

// SettingsStore provides the current scheduling constraints.
type SettingsStore interface {
	GetSettings(ctx context.Context) (*Settings, error)
}
