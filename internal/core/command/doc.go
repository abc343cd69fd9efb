// Package command implements the fixed command set served by respkv.
//
// Supported commands:
//   - PING [message]
//   - ECHO message
//   - GET key
//   - SET key value
//   - DEL key [key ...]
//   - HELP
//
// Command names are matched case-insensitively and resolved to a Kind before
// dispatch. Usage errors become "ERR ..." replies and never end the
// connection.
package command
