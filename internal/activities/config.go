// internal/activities/config.go
package activities

import (
	"time"

	"activity-signup/internal/common/config"
)

type Config struct {
	RequestTimeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(cfg.Server.RequestTimeout)
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Config{RequestTimeout: timeout}
}
