// Package server holds the status HTTP server configuration.
//
// The start command serves the supervisor status on this address when
// Enabled is set. The server binds to loopback by default; set ApiKey before
// exposing it further.
package server
