package domain

import (
	"fmt"
	"time"
)

// Kind classifies a scheduled notification. Pending entries carry the kind
// explicitly so that per-kind cancellation never has to parse IDs.
type Kind string

const (
	KindWisdom Kind = "wisdom"
	KindNag    Kind = "nag"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsWisdom() bool {
	return k == KindWisdom
}

func (k Kind) IsNag() bool {
	return k == KindNag
}

// ScheduledNotification is a single intended firing. It exists only inside
// the notification sink and is derived fresh on every reschedule; nothing
// about it is persisted beyond LastShown on the chosen message.
type ScheduledNotification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	FireAt    time.Time `json:"fire_at"`
	MessageID string    `json:"message_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Channel   string    `json:"channel"`
}

// PendingNotification is the sink's view of an already-registered firing.
type PendingNotification struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	FireAt time.Time `json:"fire_at"`
	Body   string    `json:"body"`
}

// WisdomNotificationID builds the sink ID for a wisdom firing. The prefix
// convention lets the platform side group entries without a side index.
func WisdomNotificationID(fireAt time.Time) string {
	return fmt.Sprintf("wisdom-%d", fireAt.UnixMilli())
}

// NagNotificationID builds the sink ID for one firing of a nag message.
func NagNotificationID(messageID string, fireAt time.Time) string {
	return fmt.Sprintf("nag-%s-%d", messageID, fireAt.UnixMilli())
}
