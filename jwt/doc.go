// Package jwt issues and validates the stateless session tokens returned by
// login. Tokens are HS256-signed with a server-held secret and carry only the
// user ID and email; validity beyond signature and expiry is decided by the
// caller against the user store.
package jwt
