package ratelimiter

import (
	"fmt"
	"time"
)

// Config is read from RATE_LIMIT_* variables.
type Config struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	// Store selects "memory" or "redis".
	Store  string `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	Prefix string `env:"RATE_LIMIT_PREFIX" envDefault:"ratelimit:"`
}

func (c Config) validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("%w: requests must be positive, got %d", ErrInvalidConfig, c.Requests)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	return nil
}
