// Package logger provides a structured logging facility based on Zap.
//
// It builds the process-wide logger from Config and integrates with the
// Fiber status server.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID from a Fiber context and attaches
// it to the log entry, so all logs of one status request can be correlated.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: console (default) or json
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Supervisor started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
