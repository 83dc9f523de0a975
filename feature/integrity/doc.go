// Package integrity provides system health checks.
//
// Unlike the 'items' package which reconciles quiz content, this package
// validates the infrastructure Quiz Manager depends on.
//
// # Checks Provided
//
//   - Backend: Lists quizzes once to confirm the quiz API is reachable and the session is accepted.
//   - Storage: Checks that the backup bucket exists and holds the backup folder.
//   - Database: Validates that the attempt history table matches the gorm model (columns, types).
//
// Storage and database checks report "disabled" when their dependency is not connected.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/backend : Runs the backend probe.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
//   - GET /integrity/database : Runs the schema check.
package integrity
