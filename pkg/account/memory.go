package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory implements Directory with an in-process map, for tests
// and local development without a database.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]memoryUser // keyed by lowercased username
}

type memoryUser struct {
	user User
	hash string
}

// NewMemoryDirectory creates an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]memoryUser)}
}

func (d *MemoryDirectory) Register(ctx context.Context, username, password string) (*User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(username)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[key]; exists {
		return nil, ErrUsernameTaken
	}

	user := User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	d.users[key] = memoryUser{user: user, hash: hash}

	return &user, nil
}

func (d *MemoryDirectory) Authenticate(ctx context.Context, username, password string) (*User, error) {
	d.mu.RLock()
	entry, exists := d.users[strings.ToLower(username)]
	d.mu.RUnlock()

	if !exists {
		return nil, ErrInvalidCredentials
	}

	ok, err := verifyPassword(entry.hash, password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	user := entry.user
	return &user, nil
}
