package domain

import (
	"slices"
	"time"
)

// NotificationSettings is the singleton user configuration for reminder
// planning. QuietHoursStart/End are fractional hours of day in [0, 24); the
// quiet window wraps past midnight when start > end.
type NotificationSettings struct {
	Enabled            bool      `json:"enabled"`
	NotificationDays   []int     `json:"notification_days"`
	QuietHours         bool      `json:"quiet_hours"`
	QuietHoursStart    float64   `json:"quiet_hours_start"`
	QuietHoursEnd      float64   `json:"quiet_hours_end"`
	GroupNotifications bool      `json:"group_notifications"`
	SoundEnabled       bool      `json:"sound_enabled"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:            true,
		NotificationDays:   []int{1, 3, 7},
		QuietHours:         false,
		QuietHoursStart:    22,
		QuietHoursEnd:      8,
		GroupNotifications: false,
		SoundEnabled:       true,
	}
}

// Normalize drops non-positive lead days, de-duplicates, sorts ascending, and
// clamps quiet hours into [0, 24).
func (s *NotificationSettings) Normalize() {
	days := make([]int, 0, len(s.NotificationDays))
	for _, d := range s.NotificationDays {
		if d > 0 && !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	slices.Sort(days)
	s.NotificationDays = days

	s.QuietHoursStart = clampHour(s.QuietHoursStart)
	s.QuietHoursEnd = clampHour(s.QuietHoursEnd)
}

func clampHour(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h >= 24 {
		return 0
	}
	return h
}

// SettingsPatch is a merge-update: nil fields leave the current value
// untouched.
type SettingsPatch struct {
	Enabled            *bool    `json:"enabled,omitempty"`
	NotificationDays   *[]int   `json:"notification_days,omitempty"`
	QuietHours         *bool    `json:"quiet_hours,omitempty"`
	QuietHoursStart    *float64 `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd      *float64 `json:"quiet_hours_end,omitempty"`
	GroupNotifications *bool    `json:"group_notifications,omitempty"`
	SoundEnabled       *bool    `json:"sound_enabled,omitempty"`
}

func (p *SettingsPatch) Apply(s *NotificationSettings) {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.NotificationDays != nil {
		s.NotificationDays = *p.NotificationDays
	}
	if p.QuietHours != nil {
		s.QuietHours = *p.QuietHours
	}
	if p.QuietHoursStart != nil {
		s.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		s.QuietHoursEnd = *p.QuietHoursEnd
	}
	if p.GroupNotifications != nil {
		s.GroupNotifications = *p.GroupNotifications
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	s.Normalize()
}
