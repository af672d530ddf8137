package domain

import (
	"time"
)

const (
	// WeightMin and WeightMax bound a message's selection weight.
	WeightMin = 1
	WeightMax = 5

	// WeightDefault is the neutral weight assigned when the user does not
	// choose one. Novelty boosting applies only to this value.
	WeightDefault = 3

	// MinNagIntervalMinutes is the smallest allowed nag repeat period.
	MinNagIntervalMinutes = 1
)

// Message is a short text the user wants surfaced as a notification.
// Messages are owned by the message store; the scheduling engine only reads
// them and writes back LastShown.
type Message struct {
	ID                 string     `json:"id"`
	Text               string     `json:"text"`
	Weight             int        `json:"weight"`
	IsNagMe            bool       `json:"is_nag_me"`
	NagIntervalMinutes int        `json:"nag_interval_minutes"`
	CreatedAt          time.Time  `json:"created_at"`
	LastShown          *time.Time `json:"last_shown,omitempty"`
}

func NewMessage(id, text string, weight int, createdAt time.Time) *Message {
	return &Message{
		ID:        id,
		Text:      text,
		Weight:    weight,
		CreatedAt: createdAt.UTC(),
	}
}

// NagInterval returns the repeat period for a nag message.
func (m *Message) NagInterval() time.Duration {
	return time.Duration(m.NagIntervalMinutes) * time.Minute
}

// Age reports how long the message has existed at the given instant.
func (m *Message) Age(now time.Time) time.Duration {
	return now.Sub(m.CreatedAt)
}

func (m *Message) Validate() error {
	if m.Text == "" {
		return ErrEmptyMessageText
	}
	if m.Weight < WeightMin || m.Weight > WeightMax {
		return ErrInvalidWeight
	}
	if m.IsNagMe && m.NagIntervalMinutes < MinNagIntervalMinutes {
		return ErrInvalidNagInterval
	}
	return nil
}
