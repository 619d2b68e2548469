package session

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// FlashKind classifies a flash message. At most one message per kind is
// pending at any time; queueing a second one of the same kind overwrites
// the first.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// FlashMessage is a one-shot notification queued for the next page view.
type FlashMessage struct {
	Type    FlashKind `json:"type"`
	Message string    `json:"message"`
}

// FormData is a one-shot echo of the last form submission, used to
// repopulate fields and show validation errors after a failed submit.
type FormData struct {
	Data   map[string]any      `json:"data,omitempty"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// UserRef is a weak reference to an externally-owned user record. Its
// absence marks the session as anonymous.
type UserRef struct {
	ID string `json:"id"`
}

// Session is the server-side state addressed by an opaque random id. It is
// the sole entity the session core persists.
type Session struct {
	ID            string
	Signature     string
	ExpiresAt     time.Time
	IsBot         bool
	User          *UserRef
	FlashMessages map[FlashKind]string
	FormData      *FormData
	Extras        map[string]any
}

// sessionWire mirrors Session on the KV wire. Expiry travels as a Unix
// millisecond timestamp, never as a formatted date.
type sessionWire struct {
	ID            string               `json:"id"`
	Signature     string               `json:"signature"`
	Expiry        int64                `json:"expiry"`
	IsBot         bool                 `json:"isBot"`
	User          *UserRef             `json:"user,omitempty"`
	FlashMessages map[FlashKind]string `json:"flashMessages,omitempty"`
	FormData      *FormData            `json:"formData,omitempty"`
	Extras        map[string]any       `json:"extras,omitempty"`
}

func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionWire{
		ID:            s.ID,
		Signature:     s.Signature,
		Expiry:        s.ExpiresAt.UnixMilli(),
		IsBot:         s.IsBot,
		User:          s.User,
		FlashMessages: s.FlashMessages,
		FormData:      s.FormData,
		Extras:        s.Extras,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var wire sessionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	// A payload without identity or signature cannot be verified and is
	// rejected as corrupt.
	if wire.ID == "" || wire.Signature == "" {
		return errors.New("session: payload missing id or signature")
	}

	*s = Session{
		ID:            wire.ID,
		Signature:     wire.Signature,
		ExpiresAt:     time.UnixMilli(wire.Expiry),
		IsBot:         wire.IsBot,
		User:          wire.User,
		FlashMessages: wire.FlashMessages,
		FormData:      wire.FormData,
		Extras:        wire.Extras,
	}
	return nil
}

// SignedID returns the cookie value "<id>.<signature>".
func (s *Session) SignedID() string {
	return s.ID + "." + s.Signature
}

// splitSignedID separates a cookie value into id and signature.
func splitSignedID(signedID string) (id, signature string, ok bool) {
	return strings.Cut(signedID, ".")
}

// IsAuthenticated reports whether a user is attached to the session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

// IsExpired reports whether the in-record expiry has passed. The KV store
// enforces the same deadline through its TTL; this mirror catches records
// read between the deadline and the store's eviction.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Extra reads a value from the free-form extras mapping.
func (s *Session) Extra(key string) (any, bool) {
	if s == nil || s.Extras == nil {
		return nil, false
	}
	v, ok := s.Extras[key]
	return v, ok
}

// SetExtra stores a value in the free-form extras mapping. The change is
// not persisted until the next Manager save.
func (s *Session) SetExtra(key string, value any) {
	if s == nil {
		return
	}
	if s.Extras == nil {
		s.Extras = make(map[string]any)
	}
	s.Extras[key] = value
}
