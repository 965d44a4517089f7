package billing

// Config is read from the environment.
type Config struct {
	PingMessage    string   `env:"PING_MESSAGE" envDefault:"ping"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"65536"`
	// MaxWebhookBytes caps provider webhook payloads.
	MaxWebhookBytes int64 `env:"WEBHOOK_MAX_BYTES" envDefault:"1048576"`
	// AppURL is linked from lifecycle emails.
	AppURL string `env:"FRONTEND_URL" envDefault:"http://localhost:8080"`
}

// DefaultConfig matches the env defaults.
func DefaultConfig() Config {
	return Config{
		PingMessage:     "ping",
		AllowedOrigins:  []string{"*"},
		MaxBodyBytes:    64 << 10,
		MaxWebhookBytes: 1 << 20,
		AppURL:          "http://localhost:8080",
	}
}
