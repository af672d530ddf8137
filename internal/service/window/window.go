package window

import (
	"time"

	"github.com/mindleaf/notification-scheduling/internal/domain"
)

// Bounds returns the active-hours window for the day of ref. When ref is
// already at or past the window's end, the whole window advances to the next
// calendar day; it is never split or wrapped across midnight.
func Bounds(settings *domain.Settings, ref time.Time) (start, end time.Time) {
	year, month, day := ref.Date()
	loc := ref.Location()

	start = time.Date(year, month, day, settings.StartHour, 0, 0, 0, loc)
	end = time.Date(year, month, day, settings.EndHour, 0, 0, 0, loc)

	if !ref.Before(end) {
		start = start.AddDate(0, 0, 1)
		end = end.AddDate(0, 0, 1)
	}

	return start, end
}

// AdjustIntoWindow maps an instant to the nearest permissible instant inside
// active hours: before StartHour snaps forward to StartHour:00 the same day,
// at or after EndHour snaps to StartHour:00 of the next day. Instants already
// inside the window are returned unchanged, so the adjustment is idempotent.
func AdjustIntoWindow(t time.Time, settings *domain.Settings) time.Time {
	year, month, day := t.Date()
	loc := t.Location()

	if t.Hour() < settings.StartHour {
		return time.Date(year, month, day, settings.StartHour, 0, 0, 0, loc)
	}
	if t.Hour() >= settings.EndHour {
		return time.Date(year, month, day+1, settings.StartHour, 0, 0, 0, loc)
	}
	return t
}
