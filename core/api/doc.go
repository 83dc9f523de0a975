// Package api is the client for the quiz backend REST API.
//
// # Endpoints
//
// Paths are configurable and default to the backend's routes:
//
//   - POST /users/login/      credentials to token pair
//   - POST /users/register/   account creation
//   - POST /token/refresh/    refresh token to new access token
//   - /quizzes/quizzes/       quiz list, detail, create
//   - /quizzes/variants/      variant list (?quiz=), create
//   - /quizzes/items/         item list (?variant=), create, delete
//
// # Authentication
//
// Authenticated calls send "Authorization: Bearer <access>". On a 401 the
// client refreshes once and retries once. A failed refresh clears the token
// store and returns an error wrapping domain.ErrAuth.
//
// # Errors
//
// Responses map onto the domain taxonomy: 404 to domain.ErrNotFound, 401/403
// to domain.ErrAuth, 400 to *domain.ValidationError and transport failures to
// domain.ErrNetwork. Other statuses return *StatusError.
//
// List endpoints do not guarantee scoping. Callers filter with
// domain.Variant.BelongsTo and domain.Item.BelongsTo.
package api
