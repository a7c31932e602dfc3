// Package middleware groups the HTTP middleware of the Fiber application.
//
//   - auth: API key validation.
//   - rayid: per-request id stored in the context and echoed in the X-Ray-ID header.
package middleware
