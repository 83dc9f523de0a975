// Package auth exposes the quiz backend session: login, registration,
// logout and a description of the stored access token.
package auth
