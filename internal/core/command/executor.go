package command

import (
	"github.com/yndnr/respkv/pkg/resp"
)

// Store is the key-value table commands operate on.
type Store interface {
	Get(key string) (resp.Value, bool)
	Set(key string, v resp.Value)
	Delete(key string) bool
}

// Executor runs commands against a Store. It is safe for concurrent use if
// the Store is.
type Executor struct {
	store Store
}

// NewExecutor returns an Executor backed by store.
func NewExecutor(store Store) *Executor {
	return &Executor{store: store}
}

// Execute runs the named command and returns its reply. Failures are
// returned as "ERR ..." error values; the connection stays usable.
func (e *Executor) Execute(name string, args []string) resp.Value {
	v, err := e.Do(name, args)
	if err != nil {
		return ErrorReply(err)
	}
	return v
}

// Do runs the named command and returns its reply or the reason it failed.
func (e *Executor) Do(name string, args []string) (resp.Value, error) {
	k := Lookup(name)
	switch k {
	case Ping:
		return e.ping(args)
	case Echo:
		return e.echo(args)
	case Get:
		return e.get(args)
	case Set:
		return e.set(args)
	case Del:
		return e.del(args)
	case Help:
		return resp.BulkString(HelpText), nil
	default:
		return resp.Value{}, unknownCommand(name)
	}
}

func (e *Executor) ping(args []string) (resp.Value, error) {
	if len(args) == 0 {
		return resp.SimpleString("PONG"), nil
	}
	return resp.BulkString(args[0]), nil
}

func (e *Executor) echo(args []string) (resp.Value, error) {
	if len(args) < 1 {
		return resp.Value{}, wrongArity(Echo)
	}
	return resp.BulkString(args[0]), nil
}

func (e *Executor) get(args []string) (resp.Value, error) {
	if len(args) != 1 {
		return resp.Value{}, wrongArity(Get)
	}
	v, ok := e.store.Get(args[0])
	if !ok {
		return resp.Null(), nil
	}
	return v, nil
}

// set ignores arguments after the value; no SET options are interpreted.
func (e *Executor) set(args []string) (resp.Value, error) {
	if len(args) < 2 {
		return resp.Value{}, wrongArity(Set)
	}
	e.store.Set(args[0], resp.BulkString(args[1]))
	return resp.SimpleString("OK"), nil
}

// del removes keys one at a time; a repeated key only counts while it is
// still present.
func (e *Executor) del(args []string) (resp.Value, error) {
	if len(args) < 1 {
		return resp.Value{}, wrongArity(Del)
	}
	var removed int64
	for _, key := range args {
		if e.store.Delete(key) {
			removed++
		}
	}
	return resp.Integer(removed), nil
}
