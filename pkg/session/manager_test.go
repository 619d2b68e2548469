package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/kv"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const testSecret = "test-secret-key-that-is-long-enough"

func setupManager(t *testing.T) (*session.Manager, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore(0)
	manager, err := session.New(testSecret, store)
	require.NoError(t, err)

	return manager, store
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := session.New("too-short", kv.NewMemoryStore(0))
		assert.ErrorIs(t, err, session.ErrSecretTooShort)
	})

	t.Run("rejects nil store", func(t *testing.T) {
		t.Parallel()

		_, err := session.New(testSecret, nil)
		assert.ErrorIs(t, err, session.ErrNoStore)
	})
}

func TestManager_CreateGet(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	t.Run("create then get round trip", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		require.NotEmpty(t, sess.ID)
		require.NotEmpty(t, sess.Signature)
		assert.False(t, sess.IsBot)
		assert.False(t, sess.IsAuthenticated())

		loaded, err := manager.Get(ctx, sess.SignedID())
		require.NoError(t, err)
		assert.Equal(t, sess.ID, loaded.ID)
	})

	t.Run("anonymous session lives about a day", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), sess.ExpiresAt, time.Minute)
	})

	t.Run("bot session lives seconds", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, true)
		require.NoError(t, err)
		assert.True(t, sess.IsBot)
		assert.WithinDuration(t, time.Now().Add(5*time.Second), sess.ExpiresAt, time.Second)
	})

	t.Run("each create yields a distinct id", func(t *testing.T) {
		t.Parallel()

		a, err := manager.Create(ctx, false)
		require.NoError(t, err)
		b, err := manager.Create(ctx, false)
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestManager_Get_Rejections(t *testing.T) {
	t.Parallel()

	manager, store := setupManager(t)
	ctx := context.Background()

	t.Run("malformed cookie value", func(t *testing.T) {
		t.Parallel()

		_, err := manager.Get(ctx, "no-dot-separator")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("tampered signature", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		_, err = manager.Get(ctx, sess.ID+".forged-signature")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("verified id with no stored record", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, "session:"+sess.ID))

		_, err = manager.Get(ctx, sess.SignedID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("corrupt stored payload", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "session:"+sess.ID, "garbage", 0))

		_, err = manager.Get(ctx, sess.SignedID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("stale record past its in-record expiry", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		sess.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Set(ctx, "session:"+sess.ID, sess, 0))

		_, err = manager.Get(ctx, sess.SignedID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("store failure surfaces as itself", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection refused")
		broken, err := session.New(testSecret, failingStore{err: storeErr})
		require.NoError(t, err)

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		_, err = broken.Get(ctx, sess.SignedID())
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, session.ErrSessionNotFound)
	})
}

func TestManager_Save(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	t.Run("rejects unverifiable record", func(t *testing.T) {
		t.Parallel()

		err := manager.Save(ctx, &session.Session{ID: "abc", Signature: "bogus"})
		assert.ErrorIs(t, err, session.ErrInvalidSession)
	})

	t.Run("rejects nil record", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, manager.Save(ctx, nil), session.ErrInvalidSession)
	})

	t.Run("attaching a user lengthens the lifetime", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		sess.User = &session.UserRef{ID: "user-1"}
		require.NoError(t, manager.Save(ctx, sess))
		assert.WithinDuration(t, time.Now().Add(48*time.Hour), sess.ExpiresAt, time.Minute)
	})

	t.Run("bot wins over authentication", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, true)
		require.NoError(t, err)

		sess.User = &session.UserRef{ID: "user-1"}
		require.NoError(t, manager.Save(ctx, sess))
		assert.WithinDuration(t, time.Now().Add(5*time.Second), sess.ExpiresAt, time.Second)
	})
}

func TestManager_ExtendValidity(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	sess, err := manager.Create(ctx, false)
	require.NoError(t, err)
	before := sess.ExpiresAt

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, manager.ExtendValidity(ctx, sess))
	assert.True(t, sess.ExpiresAt.After(before))
}

func TestManager_Flashes(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	t.Run("read once", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashSuccess, Message: "saved",
		}))

		flashes, err := manager.Flashes(ctx, sess)
		require.NoError(t, err)
		require.Len(t, flashes, 1)
		assert.Equal(t, session.FlashSuccess, flashes[0].Type)
		assert.Equal(t, "saved", flashes[0].Message)

		again, err := manager.Flashes(ctx, sess)
		require.NoError(t, err)
		assert.Empty(t, again)

		// The cleared state must be persisted, not just in-memory.
		loaded, err := manager.Get(ctx, sess.SignedID())
		require.NoError(t, err)
		assert.Empty(t, loaded.FlashMessages)
	})

	t.Run("same kind overwrites", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashError, Message: "first",
		}))
		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashError, Message: "second",
		}))

		flashes, err := manager.Flashes(ctx, sess)
		require.NoError(t, err)
		require.Len(t, flashes, 1)
		assert.Equal(t, "second", flashes[0].Message)
	})

	t.Run("different kinds coexist", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashSuccess, Message: "ok",
		}))
		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashError, Message: "oops",
		}))

		flashes, err := manager.Flashes(ctx, sess)
		require.NoError(t, err)
		assert.Len(t, flashes, 2)
	})

	t.Run("empty yields nothing without a save", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		flashes, err := manager.Flashes(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, flashes)
	})
}

func TestManager_FormData(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	t.Run("read once", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		require.NoError(t, manager.SetFormData(ctx, sess, session.FormData{
			Data:   map[string]any{"username": "alice"},
			Errors: map[string][]string{"password": {"too short"}},
		}))

		form, err := manager.PopFormData(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, form)
		assert.Equal(t, "alice", form.Data["username"])
		assert.Equal(t, []string{"too short"}, form.Errors["password"])

		again, err := manager.PopFormData(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, again)

		loaded, err := manager.Get(ctx, sess.SignedID())
		require.NoError(t, err)
		assert.Nil(t, loaded.FormData)
	})

	t.Run("set replaces wholesale", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		require.NoError(t, manager.SetFormData(ctx, sess, session.FormData{
			Data: map[string]any{"a": "1"},
		}))
		require.NoError(t, manager.SetFormData(ctx, sess, session.FormData{
			Data: map[string]any{"b": "2"},
		}))

		form, err := manager.PopFormData(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, form)
		assert.NotContains(t, form.Data, "a")
		assert.Equal(t, "2", form.Data["b"])
	})

	t.Run("absent yields nil nil", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)

		form, err := manager.PopFormData(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, form)
	})
}

func TestManager_Rotation(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	t.Run("login rotates identity and attaches user", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		require.NoError(t, manager.AddFlash(ctx, sess, session.FlashMessage{
			Type: session.FlashSuccess, Message: "welcome",
		}))
		require.NoError(t, manager.SetFormData(ctx, sess, session.FormData{
			Data: map[string]any{"username": "alice"},
		}))
		sess.SetExtra("theme", "dark")

		rotated, err := manager.GenerateForUser(ctx, sess, session.UserRef{ID: "user-1"})
		require.NoError(t, err)

		assert.NotEqual(t, sess.ID, rotated.ID)
		assert.NotEqual(t, sess.Signature, rotated.Signature)
		require.True(t, rotated.IsAuthenticated())
		assert.Equal(t, "user-1", rotated.User.ID)
		assert.WithinDuration(t, time.Now().Add(48*time.Hour), rotated.ExpiresAt, time.Minute)

		// Flash messages and extras carry over; form data does not.
		assert.Equal(t, "welcome", rotated.FlashMessages[session.FlashSuccess])
		v, ok := rotated.Extra("theme")
		require.True(t, ok)
		assert.Equal(t, "dark", v)
		assert.Nil(t, rotated.FormData)

		// The old id no longer resolves.
		_, err = manager.Get(ctx, sess.SignedID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		loaded, err := manager.Get(ctx, rotated.SignedID())
		require.NoError(t, err)
		assert.Equal(t, rotated.ID, loaded.ID)
	})

	t.Run("logout rotates identity and drops user", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, false)
		require.NoError(t, err)
		authed, err := manager.GenerateForUser(ctx, sess, session.UserRef{ID: "user-1"})
		require.NoError(t, err)

		anon, err := manager.Invalidate(ctx, authed)
		require.NoError(t, err)

		assert.NotEqual(t, authed.ID, anon.ID)
		assert.False(t, anon.IsAuthenticated())
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), anon.ExpiresAt, time.Minute)

		_, err = manager.Get(ctx, authed.SignedID())
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("bot flag survives rotation", func(t *testing.T) {
		t.Parallel()

		sess, err := manager.Create(ctx, true)
		require.NoError(t, err)

		rotated, err := manager.GenerateForUser(ctx, sess, session.UserRef{ID: "user-1"})
		require.NoError(t, err)
		assert.True(t, rotated.IsBot)
	})
}

func TestManager_WriteCookie(t *testing.T) {
	t.Parallel()

	manager, _ := setupManager(t)
	ctx := context.Background()

	sess, err := manager.Create(ctx, false)
	require.NoError(t, err)

	t.Run("emits the signed id to the response", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		manager.WriteCookie(w, nil, sess)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sid", cookies[0].Name)
		assert.Equal(t, sess.SignedID(), cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
		assert.WithinDuration(t, sess.ExpiresAt, cookies[0].Expires, time.Second)
	})

	t.Run("upserts the in-flight request cookie", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("GET", "/", nil)
		r.AddCookie(&http.Cookie{Name: "sid", Value: "stale-value"})
		r.AddCookie(&http.Cookie{Name: "other", Value: "kept"})

		w := httptest.NewRecorder()
		manager.WriteCookie(w, r, sess)

		c, err := r.Cookie("sid")
		require.NoError(t, err)
		assert.Equal(t, sess.SignedID(), c.Value)

		other, err := r.Cookie("other")
		require.NoError(t, err)
		assert.Equal(t, "kept", other.Value)
	})
}

// failingStore simulates a KV backend outage.
type failingStore struct {
	err error
}

func (s failingStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return s.err
}

func (s failingStore) Get(ctx context.Context, key string, dest any) error {
	return s.err
}

func (s failingStore) Delete(ctx context.Context, key string) error {
	return s.err
}
