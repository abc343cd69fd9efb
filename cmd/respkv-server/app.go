package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/server/config"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "respkv-server",
		Usage:   "in-memory key-value server speaking RESP",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Action: func(c *cli.Context) error {
			opts := optionsFrom(c)
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return serve(c.Context, cfg, opts)
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(),
			certCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML configuration file",
			EnvVars: []string{confloader.DefaultEnvPrefix + "CONFIG"},
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "address the plain RESP listener binds to",
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "port of the plain RESP listener",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}
}

// options carries what the command line contributes to the configuration.
type options struct {
	configFile string
	overrides  map[string]any
}

func optionsFrom(c *cli.Context) options {
	o := options{
		configFile: c.String("config"),
		overrides:  make(map[string]any),
	}
	if c.IsSet("host") {
		o.overrides["server.host"] = c.String("host")
	}
	if c.IsSet("port") {
		o.overrides["server.port"] = c.Int("port")
	}
	if c.IsSet("log-level") {
		o.overrides["log.level"] = c.String("log-level")
	}
	return o
}

// loadConfig layers defaults, the config file, RESPKV_* variables and flags,
// then verifies the result.
func loadConfig(o options) (*config.ServerConfig, error) {
	cfg := config.Default()

	loaderOpts := []confloader.Option{confloader.WithOverrides(o.overrides)}
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(o.configFile))
	}

	if err := confloader.NewLoader(loaderOpts...).Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print build information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			fmt.Fprintf(c.App.Writer, "respkv-server %s\n", info.Version)
			fmt.Fprintf(c.App.Writer, "  commit:   %s\n", info.Commit)
			fmt.Fprintf(c.App.Writer, "  built:    %s\n", info.BuildTime)
			fmt.Fprintf(c.App.Writer, "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(c.App.Writer, "  platform: %s\n", info.Platform)
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "inspect configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "dump",
				Usage: "print the effective configuration as YAML",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(optionsFrom(c))
					if err != nil {
						return err
					}
					enc := yaml.NewEncoder(c.App.Writer)
					enc.SetIndent(2)
					if err := enc.Encode(config.Sanitize(cfg)); err != nil {
						return fmt.Errorf("encode config: %w", err)
					}
					return enc.Close()
				},
			},
		},
	}
}

func certCommand() *cli.Command {
	return &cli.Command{
		Name:  "cert",
		Usage: "manage TLS material",
		Subcommands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "write a self-signed certificate and key for the TLS listener",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cert", Value: "server.crt", Usage: "certificate output path"},
					&cli.StringFlag{Name: "key", Value: "server.key", Usage: "private key output path"},
					&cli.StringSliceFlag{
						Name:  "san",
						Value: cli.NewStringSlice("localhost", "127.0.0.1"),
						Usage: "DNS names and IP addresses the certificate is valid for",
					},
					&cli.DurationFlag{Name: "valid-for", Value: 365 * 24 * time.Hour, Usage: "certificate lifetime"},
				},
				Action: func(c *cli.Context) error {
					certFile, keyFile := c.String("cert"), c.String("key")
					if err := tlsroots.GenerateSelfSigned(certFile, keyFile, c.StringSlice("san"), c.Duration("valid-for")); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s and %s\n", certFile, keyFile)
					return nil
				},
			},
		},
	}
}
