// Package integrity provides health checks of the library and its downloads.
//
// # Checks Provided
//
//   - Schema: Validates that the library tables carry every column the application uses.
//   - Downloads: Lists chapter directories in the download bucket that no stored chapter owns,
//     under either its current or its legacy directory name.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/downloads : Runs downloads check (supports ?fix=true).
//   - GET /integrity/schema : Runs schema check.
package integrity
