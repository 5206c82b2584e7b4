package config

import (
	"fmt"

	"github.com/opsrota/opsrota-backend/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Generation.validate(); err != nil {
		return fmt.Errorf("generation: %w", err)
	}

	return nil
}

func (g *GenerationConfig) validate() error {
	if _, err := domain.ParseTimeOfDay(g.DailyRunTime); err != nil {
		return fmt.Errorf("daily_run_time: %w", err)
	}
	if g.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be > 0 (got %v)", g.RunTimeout)
	}
	return nil
}
