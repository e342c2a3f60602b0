package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port          string
	LogLevel      slog.Level
	Environment   string
	OTLPEndpoint  string
	SamplingRate  float64
	DispatcherURL string
	Dispatcher    DispatcherConfig
	Redis         *RedisConfig
	Notify        *NotifyConfig
	Schedule      *ScheduleConfig
}

type DispatcherConfig struct {
	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxRetries := 3
	if v := os.Getenv("DISPATCHER_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	samplingRate := 1.0
	if v := os.Getenv("TRACE_SAMPLING_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			samplingRate = parsed
		}
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	notifyConfig, err := LoadNotifyConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          port,
		LogLevel:      parseLogLevel(os.Getenv("LOG_LEVEL")),
		Environment:   os.Getenv("ENVIRONMENT"),
		OTLPEndpoint:  os.Getenv("OTLP_ENDPOINT"),
		SamplingRate:  samplingRate,
		DispatcherURL: os.Getenv("DISPATCHER_URL"),
		Dispatcher: DispatcherConfig{
			MaxRetries: maxRetries,
		},
		Redis:    redisConfig,
		Notify:   notifyConfig,
		Schedule: LoadScheduleConfig(),
	}, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
