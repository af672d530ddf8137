package schedule

import (
	"github.com/mindleaf/notification-scheduling/internal/domain"
)

// PassResult summarizes one regeneration pass.
type PassResult struct {
	Kind            domain.Kind `json:"kind"`
	CancelledCount  int         `json:"cancelled_count"`
	RegisteredCount int         `json:"registered_count"`
	SkippedSlots    int         `json:"skipped_slots,omitempty"`
	NagMessageCount int         `json:"nag_message_count,omitempty"`
}

// Result is the outcome of a full reschedule (both passes).
type Result struct {
	Wisdom *PassResult `json:"wisdom,omitempty"`
	Nag    *PassResult `json:"nag,omitempty"`
}
