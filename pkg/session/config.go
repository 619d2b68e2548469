package session

import "time"

// Config holds session configuration.
type Config struct {
	// CookieName is the name of the session cookie (default: "sid").
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// AnonTTL applies to sessions with no attached user.
	AnonTTL time.Duration `env:"SESSION_ANON_TTL" envDefault:"24h"`

	// AuthTTL applies once a user is attached.
	AuthTTL time.Duration `env:"SESSION_AUTH_TTL" envDefault:"48h"`

	// BotTTL applies to bot-classified sessions regardless of
	// authentication state.
	BotTTL time.Duration `env:"SESSION_BOT_TTL" envDefault:"5s"`

	// SecureCookies enables the Secure flag on session cookies
	// (recommended for production).
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		CookieName:    "sid",
		AnonTTL:       24 * time.Hour,
		AuthTTL:       48 * time.Hour,
		BotTTL:        5 * time.Second,
		SecureCookies: false,
	}
}

// TTL selects the storage lifetime for a record. Bot classification takes
// precedence over authentication state.
func (c Config) TTL(isBot, authenticated bool) time.Duration {
	switch {
	case isBot:
		return c.BotTTL
	case authenticated:
		return c.AuthTTL
	default:
		return c.AnonTTL
	}
}
