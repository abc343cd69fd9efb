package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyHTTP(&cfg.HTTP); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Host == "" {
		return errors.New("server.host is required")
	}
	if err := verifyPort("server.port", cfg.Port); err != nil {
		return err
	}
	if cfg.IdleTimeout < 0 {
		return errors.New("server.idle_timeout must not be negative")
	}
	if cfg.WriteTimeout < 0 {
		return errors.New("server.write_timeout must not be negative")
	}
	if cfg.MaxConnections < 0 {
		return errors.New("server.max_connections must not be negative")
	}
	if cfg.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return errors.New("server.rate_burst must be at least 1 when rate_limit is set")
	}

	if cfg.TLS.Enabled {
		if err := verifyPort("server.tls.port", cfg.TLS.Port); err != nil {
			return err
		}
		if cfg.TLS.Addr() == cfg.Addr() {
			return fmt.Errorf("server.tls listens on %s, which is already used by the plain listener", cfg.Addr())
		}
		if err := verifyFile("server.tls.cert_file", cfg.TLS.CertFile); err != nil {
			return err
		}
		if err := verifyFile("server.tls.key_file", cfg.TLS.KeyFile); err != nil {
			return err
		}
		if cfg.TLS.ClientCAFile != "" {
			if err := verifyFile("server.tls.client_ca_file", cfg.TLS.ClientCAFile); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyHTTP(cfg *HTTPSection) error {
	if !cfg.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("http.addr: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	switch strings.ToLower(cfg.Backend) {
	case "", logger.BackendSlog, logger.BackendZap:
	default:
		return fmt.Errorf("log.backend %q is not one of slog, zap", cfg.Backend)
	}
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.New("log rotation settings must not be negative")
	}
	return nil
}

func verifyPort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s %d is out of range 1-65535", name, port)
	}
	return nil
}

func verifyFile(name, path string) error {
	if path == "" {
		return fmt.Errorf("%s is required", name)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
