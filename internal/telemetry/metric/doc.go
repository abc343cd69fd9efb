// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: registry, server metrics and the HTTP handler
//   - collector.go: store statistics collected at scrape time
//
// A nil *Registry is valid and records nothing, so components can run
// without metrics wired in.
package metric
