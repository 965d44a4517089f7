package redis

import "time"

// Config is read from REDIS_* variables. An empty URL disables Redis.
type Config struct {
	URL            string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}

// Enabled reports whether a Redis URL was configured.
func (c Config) Enabled() bool { return c.URL != "" }
