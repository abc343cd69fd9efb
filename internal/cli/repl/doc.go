// Package repl provides the interactive mode of respkv-cli.
//
//   - repl.go: read, tokenize, send and print loop
//   - tokenize.go: splits an input line into command arguments
//   - history.go: command history persisted under ~/.respkv
package repl
