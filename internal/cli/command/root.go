package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respkv/internal/cli/connection"
	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/cli/repl"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/pkg/resp"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "respkv-cli",
		Usage:     "Send commands to a respkv server",
		UsageText: "respkv-cli [global options] [command [arg ...]]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		// "help" must reach the server as a command.
		HideHelpCommand: true,
		Action:          run,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "uri",
			Aliases: []string{"u"},
			Usage:   "Server URI (kv://host:port, kvs://, redis://, rediss://, unix:///path)",
			EnvVars: []string{"RESPKV_URI"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "Server host, used when --uri is not set",
			Value: connection.DefaultHost,
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Server port, used when --uri is not set",
			Value:   connection.DefaultPort,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: raw, json, yaml",
			Value:   string(output.FormatRaw),
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "Exit with status 1 when the server replies with an error",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Dial and per-command timeout",
			Value: connection.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:  "tls",
			Usage: "Connect over TLS",
		},
		&cli.StringFlag{
			Name:  "cacert",
			Usage: "CA bundle used to verify the server certificate (implies --tls)",
		},
		&cli.StringFlag{
			Name:  "cert",
			Usage: "Client certificate for mutual TLS",
		},
		&cli.StringFlag{
			Name:  "key",
			Usage: "Client private key for mutual TLS",
		},
		&cli.StringFlag{
			Name:  "sni",
			Usage: "Server name sent during the TLS handshake",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "Skip server certificate verification",
		},
	}
}

// GlobalFlags holds the parsed global flags.
type GlobalFlags struct {
	Target  connection.Target
	Format  output.Format
	Strict  bool
	Timeout time.Duration
	TLS     connection.TLSOptions
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}

	var target connection.Target
	if uri := c.String("uri"); uri != "" {
		target, err = connection.ParseURI(uri)
		if err != nil {
			return nil, err
		}
	} else {
		port := c.Int("port")
		if port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid port %d", port)
		}
		target = connection.NewTarget(c.String("host"), port)
	}

	if target.Network != "unix" && (c.Bool("tls") || c.String("cacert") != "") {
		target.TLS = true
	}

	return &GlobalFlags{
		Target:  target,
		Format:  format,
		Strict:  c.Bool("strict"),
		Timeout: c.Duration("timeout"),
		TLS: connection.TLSOptions{
			CAFile:     c.String("cacert"),
			CertFile:   c.String("cert"),
			KeyFile:    c.String("key"),
			ServerName: c.String("sni"),
			Insecure:   c.Bool("insecure"),
		},
	}, nil
}

func run(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	client, err := connection.Dial(c.Context, flags.Target,
		connection.WithTimeout(flags.Timeout),
		connection.WithTLS(flags.TLS),
	)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not connect to %s: %v", flags.Target, err), 1)
	}
	defer client.Close()

	formatter := output.NewFormatter(flags.Format)

	if c.Args().Present() {
		return oneShot(c, client, formatter, flags.Strict)
	}

	r := repl.New(client, flags.Target.String(),
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithFormatter(formatter),
	)
	if err := r.Run(); err != nil {
		// The REPL has already printed the failure.
		return cli.Exit("", 1)
	}
	return nil
}

func oneShot(c *cli.Context, client *connection.Client, f output.Formatter, strict bool) error {
	v, err := client.Do(c.Args().Slice()...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if err := f.Format(c.App.Writer, v); err != nil {
		return err
	}
	if strict && v.Kind() == resp.KindError {
		return cli.Exit("", 1)
	}
	return nil
}
