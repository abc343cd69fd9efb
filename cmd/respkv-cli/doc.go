// Command respkv-cli is the command-line client for respkv-server.
//
// Usage:
//
//	respkv-cli [--uri kv://host:port] [-o raw|json|yaml] [command [arg ...]]
//
// Without a command it starts an interactive prompt.
package main
