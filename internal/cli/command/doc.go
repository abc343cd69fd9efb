// Package command defines the respkv-cli application.
//
// It uses urfave/cli/v2 for flag parsing. With arguments the CLI sends a
// single command and prints the reply; without arguments it starts the
// interactive REPL.
package command
