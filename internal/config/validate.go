package config

import "errors"

func ValidateForRun(cfg *Config) error {
	if cfg.DispatcherURL == "" {
		return errors.New("DISPATCHER_URL environment variable is required")
	}
	return cfg.Redis.Validate()
}
