// Package account is the Account Directory the session core collaborates
// with: user records addressed by id, registered and authenticated with
// username and password. The session layer only ever receives the opaque
// user id back; credential material never leaves this package.
//
// Two Directory implementations exist: PostgresDirectory for production
// and MemoryDirectory for tests and local development.
package account
