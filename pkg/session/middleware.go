package session

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/useragent"
)

// BotClassifierFunc decides whether a request's declared client identity
// (its User-Agent string) belongs to a bot. The middleware only consumes
// the boolean; the heuristic itself is replaceable.
type BotClassifierFunc func(userAgent string) bool

type middlewareConfig struct {
	classifier   BotClassifierFunc
	skipPrefixes []string
	log          *slog.Logger
}

// MiddlewareOption configures the edge middleware.
type MiddlewareOption func(*middlewareConfig)

// WithBotClassifier replaces the default User-Agent bot heuristic.
func WithBotClassifier(fn BotClassifierFunc) MiddlewareOption {
	return func(c *middlewareConfig) {
		if fn != nil {
			c.classifier = fn
		}
	}
}

// WithSkipPaths excludes request paths from session handling by prefix
// match; static and internal asset routes belong here.
func WithSkipPaths(prefixes ...string) MiddlewareOption {
	return func(c *middlewareConfig) {
		c.skipPrefixes = append(c.skipPrefixes, prefixes...)
	}
}

// WithLogger sets the logger for session-layer failures.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// Middleware runs once per inbound request, before any handler. It
// guarantees a session in the request context: an absent, forged or
// expired cookie is transparently replaced by a fresh anonymous session
// (the visitor just appears signed out). On top-level human page loads the
// session's validity is extended and the refreshed cookie re-emitted.
// A KV store failure fails the request; the middleware never passes a
// request through session-less.
func (m *Manager) Middleware(opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		classifier: useragent.IsBot,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()

			var sess *Session
			if c, err := r.Cookie(m.config.CookieName); err == nil {
				sess, err = m.Get(ctx, c.Value)
				if err != nil && !errors.Is(err, ErrSessionNotFound) {
					cfg.log.ErrorContext(ctx, "session lookup failed", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			}

			isBot := cfg.classifier(r.UserAgent())

			switch {
			case sess == nil:
				created, err := m.Create(ctx, isBot)
				if err != nil {
					cfg.log.ErrorContext(ctx, "session create failed", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				sess = created
				m.WriteCookie(w, r, sess)

			case acceptsHTML(r) && !isBot && !sess.IsBot:
				// Top-level human page navigation: re-arm the TTL once
				// per page view. Sub-resource and API calls skip this.
				if err := m.ExtendValidity(ctx, sess); err != nil {
					cfg.log.ErrorContext(ctx, "session extend failed", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				m.WriteCookie(w, r, sess)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

// acceptsHTML reports whether the request declares acceptance of HTML,
// the marker of a top-level page navigation as opposed to an asset or API
// call.
func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
