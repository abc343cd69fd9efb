package command

import (
	"bytes"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/output"
	corecmd "github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
)

func startServer(t *testing.T) (host, port string) {
	t.Helper()
	srv := redisserver.New(&redisserver.Config{Addr: "127.0.0.1:0"}, corecmd.NewExecutor(memory.New()))
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})

	host, port, err := net.SplitHostPort(srv.Addrs()[0].String())
	if err != nil {
		t.Fatal(err)
	}
	return host, port
}

// runApp runs the CLI with stdin and returns stdout and the exit code.
func runApp(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	app := App()
	out := &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"respkv-cli"}, args...))
	if err == nil {
		return out.String(), 0
	}
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		return out.String(), exit.ExitCode()
	}
	t.Fatalf("Run() = %v", err)
	return "", -1
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "respkv-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "respkv-cli")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}
	if app.Action == nil {
		t.Error("Action should be set")
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, flag := range App().Flags {
		flagNames[flag.Names()[0]] = true
	}

	for _, name := range []string{"uri", "host", "port", "output", "strict", "timeout", "tls", "cacert", "cert", "key", "sni", "insecure"} {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		env        string
		wantAddr   string
		wantTLS    bool
		wantFormat output.Format
		wantErr    bool
	}{
		{name: "defaults", wantAddr: "127.0.0.1:6379", wantFormat: output.FormatRaw},
		{name: "host and port", args: []string{"--host", "localhost", "--port", "7000"}, wantAddr: "127.0.0.1:7000", wantFormat: output.FormatRaw},
		{name: "uri", args: []string{"--uri", "kv://10.0.0.1:7001"}, wantAddr: "10.0.0.1:7001", wantFormat: output.FormatRaw},
		{name: "uri wins over host", args: []string{"--uri", "redis://h:1", "--host", "other"}, wantAddr: "h:1", wantFormat: output.FormatRaw},
		{name: "env uri", env: "kvs://secure:7443", wantAddr: "secure:7443", wantTLS: true, wantFormat: output.FormatRaw},
		{name: "tls flag", args: []string{"--tls"}, wantAddr: "127.0.0.1:6379", wantTLS: true, wantFormat: output.FormatRaw},
		{name: "cacert implies tls", args: []string{"--cacert", "ca.pem"}, wantAddr: "127.0.0.1:6379", wantTLS: true, wantFormat: output.FormatRaw},
		{name: "output yaml", args: []string{"-o", "YAML"}, wantAddr: "127.0.0.1:6379", wantFormat: output.FormatYAML},
		{name: "bad output", args: []string{"-o", "table"}, wantErr: true},
		{name: "bad uri", args: []string{"--uri", "http://x"}, wantErr: true},
		{name: "bad port", args: []string{"--port", "0"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESPKV_URI", tt.env)

			var (
				flags *GlobalFlags
				err   error
			)
			app := &cli.App{
				Flags: globalFlags(),
				Action: func(c *cli.Context) error {
					flags, err = ParseGlobalFlags(c)
					return nil
				},
			}
			if runErr := app.Run(append([]string{"test"}, tt.args...)); runErr != nil {
				t.Fatalf("Run() = %v", runErr)
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseGlobalFlags() = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGlobalFlags() = %v", err)
			}
			if got := flags.Target.Addr(); got != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", got, tt.wantAddr)
			}
			if flags.Target.TLS != tt.wantTLS {
				t.Errorf("TLS = %v, want %v", flags.Target.TLS, tt.wantTLS)
			}
			if flags.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", flags.Format, tt.wantFormat)
			}
		})
	}
}

func TestRun_OneShot(t *testing.T) {
	host, port := startServer(t)
	base := []string{"--host", host, "--port", port}

	out, code := runApp(t, "", append(base, "PING")...)
	if code != 0 || out != "PONG\n" {
		t.Errorf("PING = %q (exit %d)", out, code)
	}

	out, code = runApp(t, "", append(base, "SET", "greeting", "hello world")...)
	if code != 0 || out != "OK\n" {
		t.Errorf("SET = %q (exit %d)", out, code)
	}

	out, code = runApp(t, "", append(base, "GET", "greeting")...)
	if code != 0 || out != "\"hello world\"\n" {
		t.Errorf("GET = %q (exit %d)", out, code)
	}

	out, code = runApp(t, "", append(base, "-o", "json", "DEL", "greeting", "missing")...)
	if code != 0 || out != "1\n" {
		t.Errorf("DEL = %q (exit %d)", out, code)
	}

	out, code = runApp(t, "", append(base, "GET", "greeting")...)
	if code != 0 || out != "(nil)\n" {
		t.Errorf("GET after DEL = %q (exit %d)", out, code)
	}
}

func TestRun_HelpIsSentToServer(t *testing.T) {
	host, port := startServer(t)

	out, code := runApp(t, "", "--host", host, "--port", port, "HELP")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(out, corecmd.HelpText[:strings.Index(corecmd.HelpText, "\n")]) {
		t.Errorf("HELP = %q", out)
	}
}

func TestRun_ErrorReply(t *testing.T) {
	host, port := startServer(t)

	out, code := runApp(t, "", "--host", host, "--port", port, "NOPE")
	if code != 0 {
		t.Errorf("exit = %d, want 0 without --strict", code)
	}
	if out != "(error) ERR unknown command 'NOPE'\n" {
		t.Errorf("output = %q", out)
	}

	_, code = runApp(t, "", "--host", host, "--port", port, "--strict", "NOPE")
	if code != 1 {
		t.Errorf("exit = %d, want 1 with --strict", code)
	}
}

func TestRun_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, code := runApp(t, "", "--port", strconv.Itoa(port), "--timeout", "1s", "PING")
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
}

func TestRun_BadFlags(t *testing.T) {
	_, code := runApp(t, "", "-o", "table", "PING")
	if code != 2 {
		t.Errorf("exit = %d, want 2", code)
	}
}

func TestRun_REPL(t *testing.T) {
	host, port := startServer(t)
	t.Setenv("HOME", t.TempDir())

	out, code := runApp(t, "SET k \"two words\"\nGET k\nquit\n", "--uri", "kv://"+net.JoinHostPort(host, port))
	if code != 0 {
		t.Fatalf("exit %d, output %q", code, out)
	}

	prompt := net.JoinHostPort(host, port) + "> "
	want := prompt + "OK\n" + prompt + "\"two words\"\n" + prompt
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
