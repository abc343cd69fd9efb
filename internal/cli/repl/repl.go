package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/pkg/resp"
)

// Doer sends one command and returns the server's reply.
type Doer interface {
	Do(args ...string) (resp.Value, error)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	client    Doer
	formatter output.Formatter
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithFormatter sets how replies are printed. The default is raw.
func WithFormatter(f output.Formatter) Option {
	return func(r *REPL) {
		r.formatter = f
	}
}

// WithHistory replaces the default ~/.respkv/history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that sends commands through client. The prompt is
// shown as "<addr>> ".
func New(client Doer, addr string, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    addr + "> ",
		client:    client,
		formatter: output.NewFormatter(output.FormatRaw),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory()
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit, quit or end of input,
// and the transport error if the connection fails.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer func() { _ = r.history.Save() }()

	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				fmt.Fprintln(r.output)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if line == "exit" || line == "quit" {
			return nil
		}

		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
			if err != ErrUnbalancedQuotes {
				return err
			}
		}
	}
}

func (r *REPL) execute(line string) error {
	args, err := Tokenize(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	v, err := r.client.Do(args...)
	if err != nil {
		return err
	}
	return r.formatter.Format(r.output, v)
}
