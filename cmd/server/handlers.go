package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionkit/pkg/account"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type handlers struct {
	manager   *session.Manager
	directory account.Directory
	log       *slog.Logger
}

func (h *handlers) register(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/healthz", h.healthz)
	r.Post("/register", h.registerUser)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/dashboard", h.dashboard)
}

// homeResponse is what a page renderer would consume: one-shot channels
// are drained here, so a refresh shows them exactly once.
type homeResponse struct {
	Authenticated bool                   `json:"authenticated"`
	UserID        string                 `json:"userId,omitempty"`
	FlashMessages []session.FlashMessage `json:"flashMessages,omitempty"`
	FormData      *session.FormData      `json:"formData,omitempty"`
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	flashes, err := h.manager.Flashes(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	form, err := h.manager.PopFormData(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := homeResponse{
		Authenticated: sess.IsAuthenticated(),
		FlashMessages: flashes,
		FormData:      form,
	}
	if sess.IsAuthenticated() {
		resp.UserID = sess.User.ID
	}

	h.json(w, http.StatusOK, resp)
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.directory.Register(r.Context(), username, password)
	switch {
	case err == nil:
		if err := h.manager.AddFlash(r.Context(), sess, session.FlashMessage{
			Type:    session.FlashSuccess,
			Message: "Account created successfully, you can now login",
		}); err != nil {
			h.fail(w, r, err)
			return
		}

	case isValidationError(err):
		// Echo the submitted username (never the password) so the form
		// can be repopulated.
		if err := h.manager.SetFormData(r.Context(), sess, session.FormData{
			Data:   map[string]any{"username": username},
			Errors: validationErrors(err),
		}); err != nil {
			h.fail(w, r, err)
			return
		}
		if err := h.manager.AddFlash(r.Context(), sess, session.FlashMessage{
			Type:    session.FlashError,
			Message: "Your input is invalid",
		}); err != nil {
			h.fail(w, r, err)
			return
		}

	default:
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.directory.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, account.ErrInvalidCredentials) {
			h.fail(w, r, err)
			return
		}
		if err := h.manager.AddFlash(r.Context(), sess, session.FlashMessage{
			Type:    session.FlashError,
			Message: "Invalid username or password",
		}); err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// Privilege change: rotate to a fresh id and overwrite the cookie.
	rotated, err := h.manager.GenerateForUser(r.Context(), sess, session.UserRef{ID: user.ID.String()})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.manager.WriteCookie(w, r, rotated)

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())

	rotated, err := h.manager.Invalidate(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.manager.AddFlash(r.Context(), rotated, session.FlashMessage{
		Type:    session.FlashSuccess,
		Message: "You have been logged out",
	}); err != nil {
		h.fail(w, r, err)
		return
	}
	h.manager.WriteCookie(w, r, rotated)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	sess := session.MustFromContext(r.Context())
	if !sess.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.json(w, http.StatusOK, map[string]any{"userId": sess.User.ID})
}

func (h *handlers) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func isValidationError(err error) bool {
	return errors.Is(err, account.ErrInvalidUsername) ||
		errors.Is(err, account.ErrPasswordTooShort) ||
		errors.Is(err, account.ErrUsernameTaken)
}

func validationErrors(err error) map[string][]string {
	out := make(map[string][]string, 1)
	switch {
	case errors.Is(err, account.ErrInvalidUsername):
		out["username"] = []string{"username should be at least 3 characters and contain only letters, digits and underscores"}
	case errors.Is(err, account.ErrUsernameTaken):
		out["username"] = []string{"username is already taken"}
	case errors.Is(err, account.ErrPasswordTooShort):
		out["password"] = []string{"password should be at least 3 characters"}
	}
	return out
}
