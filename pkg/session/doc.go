// Package session implements a signed, opaque session-token protocol backed
// by a key-value store.
//
// Each visitor owns one server-side session record addressed by a random
// identifier. The identifier travels in a cookie as "<id>.<signature>",
// where the signature is an HMAC-SHA256 of the id under a server secret; a
// cookie that fails verification is indistinguishable from an absent one.
// The record carries distinct TTLs for bot, anonymous and authenticated
// sessions, one-shot flash-message and form-replay channels, and a rotation
// scheme that replaces the identifier whenever the session crosses a
// privilege boundary (login, logout) to prevent session fixation.
//
// Typical wiring:
//
//	store, _ := kv.New(ctx, kvCfg)
//	manager, _ := session.New(secret, store)
//	router.Use(manager.Middleware())
//
// Handlers then read the session from the request context:
//
//	sess := session.MustFromContext(r.Context())
//	_ = manager.AddFlash(r.Context(), sess, session.FlashMessage{
//		Type:    session.FlashSuccess,
//		Message: "Account created successfully, you can now login",
//	})
package session
