// Package cookie is a small helper for writing and reading HTTP cookies
// with consistent attributes. A Manager carries process-wide defaults
// (path, HttpOnly, SameSite, Secure) and individual writes override them
// with functional options.
//
// The session core stores an HMAC-signed identifier in the cookie value,
// so the cookie layer itself adds no signing or encryption.
package cookie
