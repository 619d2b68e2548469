package kv

import "errors"

var (
	// ErrNotFound indicates the key is missing or its TTL has elapsed.
	ErrNotFound = errors.New("kv.not_found")

	// ErrMalformedValue indicates the stored payload could not be decoded.
	ErrMalformedValue = errors.New("kv.malformed_value")

	// ErrUnknownDriver indicates an unrecognized KV_DRIVER value.
	ErrUnknownDriver = errors.New("kv.unknown_driver")

	// ErrFailedToParseConnString indicates an invalid redis connection URL.
	ErrFailedToParseConnString = errors.New("kv.failed_to_parse_conn_string")

	// ErrStoreNotReady indicates the backend did not become reachable
	// within the configured retry budget.
	ErrStoreNotReady = errors.New("kv.store_not_ready")
)
