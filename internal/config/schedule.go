package config

import (
	"os"
	"strconv"
	"time"
)

const (
	dispatchPauseEveryEnv  = "DISPATCH_PAUSE_EVERY"
	dispatchPauseMillisEnv = "DISPATCH_PAUSE_MILLIS"

	defaultDispatchPauseEvery  = 5
	defaultDispatchPauseMillis = 100
)

// ScheduleConfig paces reminder registration against the dispatcher.
type ScheduleConfig struct {
	PauseEvery int
	Pause      time.Duration
}

func LoadScheduleConfig() *ScheduleConfig {
	pauseEvery := defaultDispatchPauseEvery
	if v := os.Getenv(dispatchPauseEveryEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			pauseEvery = parsed
		}
	}

	pauseMillis := defaultDispatchPauseMillis
	if v := os.Getenv(dispatchPauseMillisEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			pauseMillis = parsed
		}
	}

	return &ScheduleConfig{
		PauseEvery: pauseEvery,
		Pause:      time.Duration(pauseMillis) * time.Millisecond,
	}
}
