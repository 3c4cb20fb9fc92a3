// Package middleware groups the HTTP middleware of the status server.
//
//   - auth: API key validation.
//   - rayid: a request id stored in the context and echoed in X-Ray-ID.
//
// Register rayid first so every later log line carries the id.
package middleware
