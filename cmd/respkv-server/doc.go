// Package main provides the entry point for respkv-server.
//
// respkv-server is an in-memory key-value server that speaks RESP, so
// redis-cli and Redis client libraries can talk to it.
//
// Usage:
//
//	respkv-server [--config FILE] [--host H] [--port P] [--log-level L]
//	respkv-server config dump
//	respkv-server cert generate --cert server.crt --key server.key
//	respkv-server version
package main
