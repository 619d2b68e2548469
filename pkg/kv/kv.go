package kv

import (
	"context"
	"time"
)

// Store is the capability set the session core needs from a key-value
// backend. Values are serialized to JSON on write and decoded on read, so
// any JSON-marshalable type round-trips.
type Store interface {
	// Set serializes value and stores it under key, overwriting any
	// existing entry. A positive ttl makes the entry unreadable once that
	// duration elapses; ttl <= 0 stores it without expiration.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get decodes the value stored under key into dest. It returns
	// ErrNotFound when the key is missing or expired, and
	// ErrMalformedValue when the payload cannot be decoded into dest.
	Get(ctx context.Context, key string, dest any) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// New builds the Store selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverRedis:
		client, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case DriverWebdis:
		return NewWebdisStore(cfg.WebdisURL, WithHTTPTimeout(cfg.ConnectTimeout)), nil
	case DriverMemory:
		return NewMemoryStore(cfg.CleanupInterval), nil
	default:
		return nil, ErrUnknownDriver
	}
}
