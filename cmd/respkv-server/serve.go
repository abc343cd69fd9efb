package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/internal/infra/buildinfo"
	"github.com/yndnr/respkv/internal/infra/confloader"
	"github.com/yndnr/respkv/internal/infra/shutdown"
	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/server/httpserver"
	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

const shutdownTimeout = 10 * time.Second

var newCertWatcher = tlsroots.NewWatcher

// serve runs the server until a signal arrives or ctx is done.
func serve(ctx context.Context, cfg *config.ServerConfig, opts options) error {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting respkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"go", info.GoVersion,
		"config", opts.configFile)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sd := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))

	store := memory.New()
	exec := command.NewExecutor(store)

	metrics := metric.NewRegistry()
	metrics.MustRegister(metric.NewCollector(store.Len))

	respCfg, certs, err := respConfig(cfg.Server, log)
	if err != nil {
		return err
	}
	srv := redisserver.New(respCfg, exec,
		redisserver.WithLogger(log.With("component", "resp")),
		redisserver.WithMetrics(metrics))
	if err := srv.Start(ctx); err != nil {
		if certs != nil {
			certs.Stop()
		}
		return fmt.Errorf("start resp server: %w", err)
	}
	sd.OnShutdown("resp server", srv.Shutdown)

	if certs != nil {
		certs.StartAsync()
		sd.OnShutdown("tls certificate watcher", func(context.Context) error {
			certs.Stop()
			return nil
		})
	}

	if cfg.HTTP.Enabled {
		hs, err := startHTTP(cfg.HTTP, srv, metrics, log, sd)
		if err != nil {
			cancel()
			_ = srv.Shutdown(context.Background())
			if certs != nil {
				certs.Stop()
			}
			return err
		}
		sd.OnShutdown("admin http", hs.Shutdown)
	}

	if opts.configFile != "" {
		w, err := watchConfig(opts, log)
		if err != nil {
			log.Warn("config hot reload disabled", "error", err)
		} else {
			sd.OnShutdown("config watcher", func(context.Context) error { return w.Stop() })
		}
	}

	log.Info("server started", "addrs", fmt.Sprint(srv.Addrs()))
	if err := sd.Wait(ctx); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}

func newLogger(s config.LogSection) (logger.Logger, error) {
	return logger.New(logger.Config{
		Level:   s.Level,
		Format:  s.Format,
		Backend: s.Backend,
		Output:  os.Stderr,
		File: logger.FileConfig{
			Path:       s.File,
			MaxSizeMB:  s.MaxSizeMB,
			MaxBackups: s.MaxBackups,
			MaxAgeDays: s.MaxAgeDays,
			Compress:   s.Compress,
		},
	})
}

// respConfig maps the server section onto listener settings. When TLS is
// enabled it also returns the certificate watcher backing the listener.
func respConfig(s config.ServerSection, log logger.Logger) (*redisserver.Config, *tlsroots.Watcher, error) {
	rc := &redisserver.Config{
		Addr:           s.Addr(),
		SocketPath:     s.Socket.Path,
		IdleTimeout:    s.IdleTimeout,
		WriteTimeout:   s.WriteTimeout,
		MaxConnections: s.MaxConnections,
		RateLimit:      s.RateLimit,
		RateBurst:      s.RateBurst,
	}
	if !s.TLS.Enabled {
		return rc, nil, nil
	}

	certs, err := newCertWatcher(s.TLS.CertFile, s.TLS.KeyFile, tlsroots.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	var clientCAs *tlsroots.Pool
	if s.TLS.ClientCAFile != "" {
		clientCAs = tlsroots.NewEmptyPool()
		if err := clientCAs.AddCertFile(s.TLS.ClientCAFile); err != nil {
			certs.Stop()
			return nil, nil, err
		}
	}

	rc.TLSAddr = s.TLS.Addr()
	rc.TLSConfig = tlsroots.ServerConfig(certs, clientCAs)
	return rc, certs, nil
}

// startHTTP binds the admin listener and serves it in the background. A
// serve failure after startup triggers process shutdown.
func startHTTP(s config.HTTPSection, srv *redisserver.Server, metrics *metric.Registry, log logger.Logger, sd *shutdown.Handler) (*httpserver.Server, error) {
	httpLog := log.With("component", "http")
	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Metrics:   metrics,
		Logger:    httpLog,
		AccessLog: s.AccessLog,
		Ready: func() error {
			if !srv.Serving() {
				return errors.New("no RESP listener is serving")
			}
			return nil
		},
	})

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen admin http %s: %w", s.Addr, err)
	}

	hs := httpserver.New(s.Addr, router)
	go func() {
		httpLog.Info("admin http listening", "address", ln.Addr().String())
		if err := hs.Serve(ln); err != nil {
			httpLog.Error("admin http stopped", "error", err)
			sd.Trigger("admin http failed")
		}
	}()
	return hs, nil
}

// watchConfig reloads the config file on change and applies the new log
// level. Other settings need a restart.
func watchConfig(opts options, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(opts.configFile); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, err := loadConfig(opts)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", logger.GetLevel())
		}
	})
	w.StartAsync()
	return w, nil
}
