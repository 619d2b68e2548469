package kv

import "time"

// Driver identifies a KV backend implementation.
type Driver string

const (
	DriverRedis  Driver = "redis"
	DriverWebdis Driver = "webdis"
	DriverMemory Driver = "memory"
)

// Config holds KV backend configuration. The driver is chosen by
// configuration at startup, not by build wiring, so both backends ship in
// every binary.
type Config struct {
	Driver Driver `env:"KV_DRIVER" envDefault:"redis"`

	// RedisURL is used by the redis driver. Format: "redis://:password@localhost:6379/0".
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// WebdisURL is the base URL of a Webdis proxy, used by the webdis driver.
	WebdisURL string `env:"REDIS_HTTP_URL" envDefault:"http://localhost:7379"`

	RetryAttempts  int           `env:"KV_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"KV_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"KV_CONNECT_TIMEOUT" envDefault:"30s"`

	// CleanupInterval is the expired-entry sweep period of the memory
	// driver (0 disables the sweeper).
	CleanupInterval time.Duration `env:"KV_CLEANUP_INTERVAL" envDefault:"5m"`
}
