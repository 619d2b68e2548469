package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/kv"
)

const (
	storageKeyPrefix = "session:"
	minSecretLength  = 32
)

// Manager creates, loads, verifies, mutates, persists, rotates and
// invalidates session records. It is safe for concurrent use; each
// operation touches a single record and suspends only the request that
// issued it. Two requests racing on the same session id resolve by
// last-save-wins on the KV key.
type Manager struct {
	store         kv.Store
	signer        *Signer
	config        Config
	cookies       *cookie.Manager
	cookieOptions []cookie.Option
}

// New creates a Manager signing ids with secret and persisting records in
// store. The secret must be at least 32 bytes; it is injected here once at
// process start and never read from the environment directly.
func New(secret string, store kv.Store, opts ...Option) (*Manager, error) {
	if len(secret) < minSecretLength {
		return nil, ErrSecretTooShort
	}
	if store == nil {
		return nil, ErrNoStore
	}

	m := &Manager{
		store:   store,
		signer:  NewSigner(secret),
		config:  DefaultConfig(),
		cookies: cookie.New(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Get resolves a cookie value "<id>.<signature>" to its session record.
// A malformed value, failed verification, missing key, corrupted payload
// or stale record all yield ErrSessionNotFound; only KV transport failures
// surface as themselves.
func (m *Manager) Get(ctx context.Context, signedID string) (*Session, error) {
	id, signature, ok := splitSignedID(signedID)
	if !ok || !m.signer.Verify(id, signature) {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := m.store.Get(ctx, storageKeyPrefix+id, &sess); err != nil {
		if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrMalformedValue) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// The stored record must describe the id it was fetched under and
	// still verify; anything else is treated as corrupt, not as an error.
	if sess.ID != id || !m.signer.Verify(sess.ID, sess.Signature) || sess.IsExpired() {
		return nil, ErrSessionNotFound
	}

	return &sess, nil
}

// Create generates, signs and persists a fresh anonymous session.
func (m *Manager) Create(ctx context.Context, isBot bool) (*Session, error) {
	sess, err := m.newRecord(isBot)
	if err != nil {
		return nil, err
	}

	if err := m.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save persists the record. The TTL policy is re-evaluated on every save,
// so attaching or removing a user changes the lifetime immediately; the
// in-record expiry and the storage TTL are written together and stay
// consistent. A record whose signature does not verify is rejected with
// ErrInvalidSession — that indicates a programming error, not client input.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess == nil || !m.signer.Verify(sess.ID, sess.Signature) {
		return ErrInvalidSession
	}

	ttl := m.config.TTL(sess.IsBot, sess.IsAuthenticated())
	sess.ExpiresAt = time.Now().Add(ttl)

	return m.store.Set(ctx, storageKeyPrefix+sess.ID, sess, ttl)
}

// ExtendValidity re-arms the record's lifetime from now under the current
// TTL policy. The edge middleware calls this at most once per human
// page-view request; bot sessions are never extended.
func (m *Manager) ExtendValidity(ctx context.Context, sess *Session) error {
	return m.Save(ctx, sess)
}

// GenerateForUser rotates the session across the login privilege change:
// the current record is deleted and a brand-new id is issued carrying over
// pending flash messages and extras, with user attached. The caller must
// overwrite the client's cookie with the new signed id (WriteCookie).
func (m *Manager) GenerateForUser(ctx context.Context, sess *Session, user UserRef) (*Session, error) {
	return m.rotate(ctx, sess, &user)
}

// Invalidate rotates the session across the logout privilege change: a new
// anonymous record replaces the current one, carrying over pending flash
// messages and extras. The caller must overwrite the client's cookie.
func (m *Manager) Invalidate(ctx context.Context, sess *Session) (*Session, error) {
	return m.rotate(ctx, sess, nil)
}

func (m *Manager) rotate(ctx context.Context, sess *Session, user *UserRef) (*Session, error) {
	rotated, err := m.newRecord(sess.IsBot)
	if err != nil {
		return nil, err
	}
	rotated.User = user
	rotated.FlashMessages = sess.FlashMessages
	rotated.Extras = sess.Extras

	if err := m.store.Delete(ctx, storageKeyPrefix+sess.ID); err != nil {
		return nil, err
	}

	if err := m.Save(ctx, rotated); err != nil {
		return nil, err
	}
	return rotated, nil
}

// AddFlash queues a one-shot notification. At most one message per kind is
// pending; a second message of the same kind overwrites the first.
func (m *Manager) AddFlash(ctx context.Context, sess *Session, flash FlashMessage) error {
	if sess.FlashMessages == nil {
		sess.FlashMessages = make(map[FlashKind]string, 2)
	}
	sess.FlashMessages[flash.Type] = flash.Message

	return m.Save(ctx, sess)
}

// Flashes returns all pending flash messages and clears them, persisting
// the cleared state before returning. A second call yields nothing. Order
// of the returned slice is not significant.
func (m *Manager) Flashes(ctx context.Context, sess *Session) ([]FlashMessage, error) {
	if len(sess.FlashMessages) == 0 {
		return nil, nil
	}

	flashes := make([]FlashMessage, 0, len(sess.FlashMessages))
	for kind, message := range sess.FlashMessages {
		flashes = append(flashes, FlashMessage{Type: kind, Message: message})
	}

	sess.FlashMessages = nil
	if err := m.Save(ctx, sess); err != nil {
		return nil, err
	}

	return flashes, nil
}

// SetFormData replaces the form-replay payload wholesale.
func (m *Manager) SetFormData(ctx context.Context, sess *Session, form FormData) error {
	sess.FormData = &form
	return m.Save(ctx, sess)
}

// PopFormData returns the pending form-replay payload and clears it,
// persisting the cleared state before returning. It returns (nil, nil)
// when nothing is pending.
func (m *Manager) PopFormData(ctx context.Context, sess *Session) (*FormData, error) {
	if sess.FormData == nil {
		return nil, nil
	}

	form := sess.FormData
	sess.FormData = nil
	if err := m.Save(ctx, sess); err != nil {
		return nil, err
	}

	return form, nil
}

// WriteCookie emits the session cookie to the response and, when r is
// non-nil, upserts it into the in-flight request so handlers running in
// the same request observe the fresh value. Attributes: HttpOnly,
// SameSite=Lax, Expires mirroring the record expiry, Secure per config.
func (m *Manager) WriteCookie(w http.ResponseWriter, r *http.Request, sess *Session) {
	opts := append([]cookie.Option{
		cookie.WithExpires(sess.ExpiresAt),
		cookie.WithSecure(m.config.SecureCookies),
	}, m.cookieOptions...)

	m.cookies.Set(w, m.config.CookieName, sess.SignedID(), opts...)

	if r != nil {
		upsertRequestCookie(r, m.config.CookieName, sess.SignedID())
	}
}

// CookieName returns the configured session cookie name.
func (m *Manager) CookieName() string {
	return m.config.CookieName
}

// upsertRequestCookie replaces the named cookie in the request header,
// keeping all others intact.
func upsertRequestCookie(r *http.Request, name, value string) {
	existing := r.Cookies()
	r.Header.Del("Cookie")
	for _, c := range existing {
		if c.Name != name {
			r.AddCookie(c)
		}
	}
	r.AddCookie(&http.Cookie{Name: name, Value: value})
}

func (m *Manager) newRecord(isBot bool) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Signature: m.signer.Sign(id),
		IsBot:     isBot,
	}, nil
}

// generateID returns 32 bytes of cryptographically secure randomness,
// base64url-encoded.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrIDGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
