// Package status serves the supervisor state over HTTP.
//
// Routes:
//
//	GET /status      supervisor snapshot
//	GET /workshop    subscribed workshop items
//	GET /mapcycles   map cycles of the game ini
//	GET /history     recent supervisor cycles (when history is enabled)
//
// The ini files are read on demand. Concurrent requests for the same file
// share one read.
package status
