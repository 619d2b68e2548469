package httpserver

import "errors"

var (
	// ErrStart indicates the server failed to start or crashed while running.
	ErrStart = errors.New("httpserver.start_failed")

	// ErrShutdown indicates graceful shutdown failed.
	ErrShutdown = errors.New("httpserver.shutdown_failed")
)
