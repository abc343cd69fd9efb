// Package httpserver serves the admin HTTP endpoints: Prometheus metrics
// and health probes. It carries no key-value traffic.
package httpserver
