package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/respkv/pkg/resp"
)

// Kind enumerates the supported commands.
type Kind uint8

const (
	Unknown Kind = iota
	Ping
	Echo
	Get
	Set
	Del
	Help
)

var kindNames = [...]string{
	Unknown: "UNKNOWN",
	Ping:    "PING",
	Echo:    "ECHO",
	Get:     "GET",
	Set:     "SET",
	Del:     "DEL",
	Help:    "HELP",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for _, k := range Kinds() {
		m[k.String()] = k
	}
	return m
}()

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// Lookup resolves a command name, ignoring case. It returns Unknown for
// names outside the supported set.
func Lookup(name string) Kind {
	if k, ok := byName[name]; ok {
		return k
	}
	return byName[strings.ToUpper(name)]
}

// Kinds returns the supported commands in help order.
func Kinds() []Kind {
	return []Kind{Ping, Echo, Get, Set, Del, Help}
}

var (
	// ErrUnknownCommand is returned for names outside the supported set.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrWrongArity is returned when a command gets too few arguments.
	ErrWrongArity = errors.New("wrong number of arguments")

	// ErrInvalidFormat is used when a request is not an array of strings
	// starting with a command name.
	ErrInvalidFormat = errors.New("invalid command format")
)

func unknownCommand(name string) error {
	return fmt.Errorf("%w '%s'", ErrUnknownCommand, name)
}

func wrongArity(k Kind) error {
	return fmt.Errorf("%w for '%s' command", ErrWrongArity, k)
}

// ErrorReply renders err as an "ERR <message>" error value.
func ErrorReply(err error) resp.Value {
	return resp.Error("ERR " + err.Error())
}

// HelpText is the reply to HELP.
const HelpText = "Available commands:\n" +
	"PING - Test connection\n" +
	"ECHO <message> - Echo back a message\n" +
	"GET <key> - Get value for key\n" +
	"SET <key> <value> - Set key to value\n" +
	"DEL <key> [<key> ...] - Delete keys\n" +
	"HELP - Show this help"
