// Package logger provides a structured logging facility based on Zap.
//
// New builds a logger from Config: the development preset for the debug level, the
// production preset otherwise, with json or console encoding.
//
// # Context Awareness
//
// WithRayID attaches the request id stored by the rayid middleware so every log line of
// a request can be correlated. WithManga does the same for update campaigns, which log
// per manga from background goroutines.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
