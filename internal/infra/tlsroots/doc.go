// Package tlsroots provides TLS certificate management for respkv.
//
//   - roots.go: CA pools and server/client tls.Config construction
//   - watcher.go: certificate hot-reload via fsnotify
//   - selfsigned.go: self-signed certificates for development setups
//
// The server's TLS listener reads its certificate through Watcher, so a
// renewed key pair is served to new connections without a restart.
package tlsroots
