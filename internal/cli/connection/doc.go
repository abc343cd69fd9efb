// Package connection provides the RESP client used by respkv-cli.
//
// Targets are written as URIs:
//
//	kv://host:port        plain TCP (redis:// is accepted too)
//	kvs://host:port       TLS (rediss:// is accepted too)
//	unix:///path/to/sock  unix domain socket
//
// "localhost" resolves to 127.0.0.1 and the port defaults to 6379.
package connection
