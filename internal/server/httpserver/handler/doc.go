// Package handler provides the admin HTTP handlers:
//
//   - health.go: liveness and readiness probes
//
// Responses use the Response envelope in types.go.
package handler
