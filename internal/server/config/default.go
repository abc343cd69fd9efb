package config

import "time"

// Default configuration values.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 6379
	DefaultTLSPort      = 6380
	DefaultWriteTimeout = 30 * time.Second
	DefaultRateBurst    = 100

	DefaultHTTPAddr = "127.0.0.1:9180"

	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	DefaultLogBackend = "slog"

	DefaultLogMaxSizeMB  = 100
	DefaultLogMaxBackups = 5
	DefaultLogMaxAgeDays = 30
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Host:         DefaultHost,
			Port:         DefaultPort,
			WriteTimeout: DefaultWriteTimeout,
			RateBurst:    DefaultRateBurst,
			TLS: TLSConfig{
				Host: DefaultHost,
				Port: DefaultTLSPort,
			},
		},
		HTTP: HTTPSection{
			Addr: DefaultHTTPAddr,
		},
		Log: LogSection{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			Backend:    DefaultLogBackend,
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
		},
	}
}
