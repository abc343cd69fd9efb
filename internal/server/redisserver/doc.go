// Package redisserver serves the key-value command set over RESP.
//
// A Server accepts connections on any mix of plain TCP, TLS and unix socket
// listeners. Each connection is handled by its own goroutine that reads
// pipelined requests, runs them through an Executor and writes one reply
// per request in order. A framing error closes only the offending
// connection.
package redisserver
