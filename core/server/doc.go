// Package server holds the HTTP server configuration.
//
// The start command reads Config for the listen address and the API key
// enforced by the auth middleware.
package server
