package config

import (
	"path/filepath"
	"strings"
)

// Sanitize returns a copy of the config with sensitive fields masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg

	if sanitized.Server.TLS.KeyFile != "" {
		sanitized.Server.TLS.KeyFile = maskPath(sanitized.Server.TLS.KeyFile)
	}

	return &sanitized
}

// maskPath keeps the file name of a private key but hides where it lives.
func maskPath(p string) string {
	return filepath.Join(maskSecret(filepath.Dir(p)), filepath.Base(p))
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
