// Package server holds the HTTP server configuration.
//
// The cmd package builds the Fiber application from Config: listen address, read
// timeout, body limit, and the API key checked by core/middleware.
package server
