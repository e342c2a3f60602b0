package plan

import (
	"math"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

// applyQuietHours defers a firing time that falls inside the quiet window
// [start, end) to exactly the window's end. The window wraps past midnight
// when start > end; a wrapped late-night hit defers to end on the next day.
func applyQuietHours(t time.Time, settings *domain.NotificationSettings) time.Time {
	if settings == nil || !settings.QuietHours {
		return t
	}

	start := settings.QuietHoursStart
	end := settings.QuietHoursEnd
	if start == end {
		return t
	}

	if !inQuietWindow(fractionalHour(t), start, end) {
		return t
	}

	endHour, endMinute := splitHour(end)
	deferred := time.Date(t.Year(), t.Month(), t.Day(), endHour, endMinute, 0, 0, t.Location())
	if !deferred.After(t) {
		// Wrapped window: the firing time sits in the late-night half, so the
		// window ends on the following day.
		deferred = deferred.AddDate(0, 0, 1)
	}
	return deferred
}

func inQuietWindow(hour, start, end float64) bool {
	if start < end {
		return hour >= start && hour < end
	}
	// Wraps past midnight.
	return hour >= start || hour < end
}

func fractionalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

func splitHour(h float64) (hour, minute int) {
	hour = int(h)
	minute = int(math.Round((h - float64(hour)) * 60))
	if minute >= 60 {
		hour++
		minute -= 60
	}
	return hour, minute
}
