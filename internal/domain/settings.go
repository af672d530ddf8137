package domain

import "time"

const (
	DailyFrequencyMin = 1
	DailyFrequencyMax = 5
)

// Settings holds the user-configured scheduling constraints. The active-hours
// window is a contiguous interval within a single day; EndHour may be 24 to
// mean next-day midnight. Values outside the documented ranges are rejected at
// the edit boundary, so the engine assumes validated input.
type Settings struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	DailyFrequency       int  `json:"daily_frequency"`
	StartHour            int  `json:"start_hour"`
	EndHour              int  `json:"end_hour"`
	MinGapHours          int  `json:"min_gap_hours"`
}

// DefaultSettings are used until the user saves their own.
func DefaultSettings() *Settings {
	return &Settings{
		NotificationsEnabled: true,
		DailyFrequency:       3,
		StartHour:            8,
		EndHour:              22,
		MinGapHours:          1,
	}
}

// MinGap returns the minimum spacing between wisdom fire times.
func (s *Settings) MinGap() time.Duration {
	return time.Duration(s.MinGapHours) * time.Hour
}

func (s *Settings) Validate() error {
	if s.DailyFrequency < DailyFrequencyMin || s.DailyFrequency > DailyFrequencyMax {
		return ErrInvalidDailyFrequency
	}
	if s.StartHour < 0 || s.StartHour > 23 {
		return ErrInvalidActiveHours
	}
	if s.EndHour < 1 || s.EndHour > 24 {
		return ErrInvalidActiveHours
	}
	if s.StartHour >= s.EndHour {
		return ErrInvalidActiveHours
	}
	if s.MinGapHours < 0 {
		return ErrInvalidMinGap
	}
	return nil
}
