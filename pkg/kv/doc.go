// Package kv provides a minimal key-value storage abstraction used by the
// session core: JSON-serialized values addressed by opaque string keys, with
// optional per-key expiration.
//
// Three interchangeable backends implement the Store interface:
//
//   - RedisStore talks the Redis protocol directly via go-redis.
//   - WebdisStore reaches Redis through a Webdis HTTP proxy, for runtimes
//     that only have outbound HTTP.
//   - MemoryStore keeps everything in process memory, for tests and local
//     development.
//
// The active backend is selected at startup from configuration:
//
//	store, err := kv.New(ctx, cfg)
//	if err != nil { ... }
package kv
