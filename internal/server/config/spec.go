package config

import (
	"net"
	"strconv"
	"time"
)

// ServerConfig is the root configuration for respkv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server" yaml:"server"`
	HTTP   HTTPSection   `koanf:"http" yaml:"http"`
	Log    LogSection    `koanf:"log" yaml:"log"`
}

// ServerSection configures the RESP listeners and per-connection limits.
type ServerSection struct {
	Host string `koanf:"host" yaml:"host"`
	Port int    `koanf:"port" yaml:"port"`

	// IdleTimeout closes connections that send nothing for this long.
	// Zero disables it.
	IdleTimeout time.Duration `koanf:"idle_timeout" yaml:"idle_timeout"`

	// WriteTimeout bounds writing a single reply.
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`

	// MaxConnections caps concurrent clients. Zero means unlimited.
	MaxConnections int `koanf:"max_connections" yaml:"max_connections"`

	// RateLimit is the number of commands per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst"`

	TLS    TLSConfig    `koanf:"tls" yaml:"tls"`
	Socket SocketConfig `koanf:"socket" yaml:"socket"`
}

// Addr returns the plain listener address.
func (s ServerSection) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// TLSConfig configures the TLS listener.
type TLSConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Host    string `koanf:"host" yaml:"host"`
	Port    int    `koanf:"port" yaml:"port"`

	CertFile string `koanf:"cert_file" yaml:"cert_file"`
	KeyFile  string `koanf:"key_file" yaml:"key_file"`

	// ClientCAFile enables mutual TLS when set.
	ClientCAFile string `koanf:"client_ca_file" yaml:"client_ca_file"`
}

// Addr returns the TLS listener address.
func (t TLSConfig) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// SocketConfig configures the Unix domain socket listener.
type SocketConfig struct {
	// Path of the socket. Empty disables the listener.
	Path string `koanf:"path" yaml:"path"`
}

// HTTPSection configures the admin endpoint serving /metrics, /health and /ready.
type HTTPSection struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Addr    string `koanf:"addr" yaml:"addr"`

	// AccessLog logs every admin request at info.
	AccessLog bool `koanf:"access_log" yaml:"access_log"`
}

// LogSection configures logging.
type LogSection struct {
	Level   string `koanf:"level" yaml:"level"`
	Format  string `koanf:"format" yaml:"format"`
	Backend string `koanf:"backend" yaml:"backend"`

	// File enables rotating file output.
	File       string `koanf:"file" yaml:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `koanf:"compress" yaml:"compress"`
}
