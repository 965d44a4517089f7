package sqlite

type Config struct {
	Path            string `env:"SQLITE_PATH" envDefault:"./subscription_db.sqlite"`
	BusyTimeoutMS   int    `env:"SQLITE_BUSY_TIMEOUT_MS" envDefault:"30000"`
	MigrationsTable string `env:"SQLITE_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
