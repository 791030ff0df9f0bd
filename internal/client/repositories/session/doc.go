// Package session persists the CLI session (user summary, access token and
// refresh token) between invocations.
//
// The file implementation stores a single JSON document with 0600
// permissions. Load on a missing file returns ErrNoSession rather than an
// empty session, so callers can tell "never logged in" from "logged out".
package session
