package account

import "time"

// Config holds database connection settings for the Postgres directory.
type Config struct {
	// DatabaseURL is the postgres connection string. Empty selects the
	// in-memory directory in the demo wiring.
	DatabaseURL string `env:"DATABASE_URL" envDefault:""`

	MaxOpenConns  int32         `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MinIdleConns  int32         `env:"DB_MIN_IDLE_CONNS" envDefault:"2"`
	RetryAttempts int           `env:"DB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"5s"`
}
