package account

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// User is an externally-owned account record. The session core references
// it only by the string form of ID.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}

// Directory is the account collaborator interface consumed by request
// handlers. Implementations must never expose password material.
type Directory interface {
	// Register creates a new user. Username and password are validated
	// here; a duplicate username yields ErrUsernameTaken.
	Register(ctx context.Context, username, password string) (*User, error)

	// Authenticate verifies the credentials and returns the user.
	// Every failure mode yields ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*User, error)
}

const (
	minUsernameLength = 3
	minPasswordLength = 3
)

// usernameRe permits identifier-like usernames: a letter or underscore
// followed by letters, digits or underscores.
var usernameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]+$`)

// validateCredentials applies the registration rules shared by all
// Directory implementations.
func validateCredentials(username, password string) error {
	if len(username) < minUsernameLength || !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
