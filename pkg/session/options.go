package session

import (
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithConfig replaces the whole configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithTTLs sets the anonymous and authenticated session lifetimes.
func WithTTLs(anon, auth time.Duration) Option {
	return func(m *Manager) {
		m.config.AnonTTL = anon
		m.config.AuthTTL = auth
	}
}

// WithBotTTL sets the lifetime of bot-classified sessions.
func WithBotTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.config.BotTTL = ttl
	}
}

// WithSecureCookies toggles the Secure attribute on emitted cookies.
func WithSecureCookies(secure bool) Option {
	return func(m *Manager) {
		m.config.SecureCookies = secure
	}
}

// WithCookieOptions appends extra cookie attributes (domain, path overrides)
// applied on every cookie write.
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookieOptions = append(m.cookieOptions, opts...)
	}
}
