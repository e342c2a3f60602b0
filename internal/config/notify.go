package config

import (
	"os"
	"strconv"
	"time"
)

const (
	expiringWindowDaysEnv = "EXPIRING_WINDOW_DAYS"
	dailyReminderHourEnv  = "DAILY_REMINDER_HOUR"
	groupDigestHourEnv    = "GROUP_DIGEST_HOUR"
	timezoneEnv           = "TIMEZONE"

	defaultExpiringWindowDays = 30
	defaultDailyReminderHour  = 9
	defaultGroupDigestHour    = 8
)

// NotifyConfig drives classification and reminder planning.
type NotifyConfig struct {
	// ExpiringWindowDays bounds the "expiring" summary bucket.
	ExpiringWindowDays int
	DailyReminderHour  int
	GroupDigestHour    int
	Location           *time.Location
}

func LoadNotifyConfig() (*NotifyConfig, error) {
	windowDays := defaultExpiringWindowDays
	if v := os.Getenv(expiringWindowDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			windowDays = parsed
		}
	}

	dailyHour := defaultDailyReminderHour
	if v := os.Getenv(dailyReminderHourEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed < 24 {
			dailyHour = parsed
		}
	}

	groupHour := defaultGroupDigestHour
	if v := os.Getenv(groupDigestHourEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 && parsed < 24 {
			groupHour = parsed
		}
	}

	location := time.Local
	if v := os.Getenv(timezoneEnv); v != "" {
		loaded, err := time.LoadLocation(v)
		if err != nil {
			return nil, ErrInvalidTimezone
		}
		location = loaded
	}

	return &NotifyConfig{
		ExpiringWindowDays: windowDays,
		DailyReminderHour:  dailyHour,
		GroupDigestHour:    groupHour,
		Location:           location,
	}, nil
}
