package session

import "errors"

var (
	// ErrSessionNotFound indicates no valid session exists for the
	// presented identifier. Verification failures, missing records,
	// expired records and corrupted payloads all map here so a caller
	// cannot distinguish a forged id from an absent one.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidSession indicates an attempt to persist a record whose
	// signature does not verify. This is an internal invariant violation,
	// never the result of client input.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrIDGeneration indicates the random id source failed.
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrNoStore indicates the manager was constructed without a KV store.
	ErrNoStore = errors.New("session.no_store")

	// ErrSecretTooShort indicates the signing secret does not meet the
	// minimum length requirement.
	ErrSecretTooShort = errors.New("session.secret_too_short")
)
