package domain

import "errors"

var (
	ErrMessageNotFound       = errors.New("message not found")
	ErrNoCandidates          = errors.New("no candidate messages")
	ErrEmptyMessageText      = errors.New("message text must not be empty")
	ErrInvalidWeight         = errors.New("message weight must be between 1 and 5")
	ErrInvalidNagInterval    = errors.New("nag interval must be at least 1 minute")
	ErrInvalidDailyFrequency = errors.New("daily frequency must be between 1 and 5")
	ErrInvalidActiveHours    = errors.New("active hours must satisfy 0 <= start < end <= 24")
	ErrInvalidMinGap         = errors.New("minimum gap hours must not be negative")
)
