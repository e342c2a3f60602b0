package plan

import (
	"testing"
	"time"

	"github.com/shelfwatch/shelfwatch/internal/domain"
)

func quietSettings(start, end float64) *domain.NotificationSettings {
	return &domain.NotificationSettings{
		Enabled:         true,
		QuietHours:      true,
		QuietHoursStart: start,
		QuietHoursEnd:   end,
	}
}

func TestApplyQuietHours(t *testing.T) {
	day := func(hour, minute int) time.Time {
		return time.Date(2026, time.May, 10, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		settings *domain.NotificationSettings
		in       time.Time
		want     time.Time
	}{
		{
			name:     "outside non-wrapping window is unchanged",
			settings: quietSettings(12, 14),
			in:       day(10, 30),
			want:     day(10, 30),
		},
		{
			name:     "inside non-wrapping window defers to end",
			settings: quietSettings(12, 14),
			in:       day(13, 15),
			want:     day(14, 0),
		},
		{
			name:     "window start is inclusive",
			settings: quietSettings(12, 14),
			in:       day(12, 0),
			want:     day(14, 0),
		},
		{
			name:     "window end is exclusive",
			settings: quietSettings(12, 14),
			in:       day(14, 0),
			want:     day(14, 0),
		},
		{
			name:     "wrapped window early morning defers to same-day end",
			settings: quietSettings(22, 8),
			in:       day(3, 0),
			want:     day(8, 0),
		},
		{
			name:     "wrapped window late night defers to next-day end",
			settings: quietSettings(22, 8),
			in:       day(23, 0),
			want:     time.Date(2026, time.May, 11, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "wrapped window daytime is unchanged",
			settings: quietSettings(22, 8),
			in:       day(12, 0),
			want:     day(12, 0),
		},
		{
			name:     "fractional end maps to minutes",
			settings: quietSettings(22, 7.5),
			in:       day(6, 0),
			want:     day(7, 30),
		},
		{
			name:     "quiet hours disabled is a no-op",
			settings: &domain.NotificationSettings{QuietHours: false, QuietHoursStart: 0, QuietHoursEnd: 24},
			in:       day(3, 0),
			want:     day(3, 0),
		},
		{
			name:     "equal start and end is a no-op",
			settings: quietSettings(9, 9),
			in:       day(9, 0),
			want:     day(9, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyQuietHours(tt.in, tt.settings)
			if !got.Equal(tt.want) {
				t.Errorf("applyQuietHours(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyQuietHoursNeverEarlierNeverMoreThanOneDay(t *testing.T) {
	settings := quietSettings(22, 8)

	for hour := 0; hour < 24; hour++ {
		in := time.Date(2026, time.May, 10, hour, 0, 0, 0, time.UTC)
		got := applyQuietHours(in, settings)

		if got.Before(in) {
			t.Errorf("hour %d: deferred time %v is earlier than input %v", hour, got, in)
		}
		if got.Sub(in) > 24*time.Hour {
			t.Errorf("hour %d: deferred more than one period: %v", hour, got.Sub(in))
		}
	}
}
