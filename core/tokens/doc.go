// Package tokens persists the backend session: the bearer access token and
// the refresh token returned by login.
//
// Two stores are provided. MemoryStore suits a long-running server process;
// RedisStore lets CLI invocations and several server instances share one
// session. Clearing the store forces the next call to re-authenticate.
//
// Inspect decodes access token claims (subject, expiry) for display only.
package tokens
