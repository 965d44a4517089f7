package email

// Config is read from EMAIL_* and POSTMARK_* variables.
// Without a server token New falls back to LogSender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string `env:"EMAIL_FROM" envDefault:"billing@example.com" validate:"required,email"`
	ReplyTo              string `env:"EMAIL_REPLY_TO" validate:"omitempty,email"`
}
