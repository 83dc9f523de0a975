// Package middleware groups the Fiber middlewares shared by all features.
//
//   - rayid: assigns a request id and echoes it in X-Ray-ID
//   - auth: enforces the X-API-Key header when server.api_key is set
package middleware
