package main

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// recordCertWatchers keeps every watcher respConfig creates during the test.
func recordCertWatchers(t *testing.T) func() []*tlsroots.Watcher {
	t.Helper()
	var (
		mu       sync.Mutex
		watchers []*tlsroots.Watcher
	)
	prev := newCertWatcher
	newCertWatcher = func(certFile, keyFile string, opts ...tlsroots.WatcherOption) (*tlsroots.Watcher, error) {
		w, err := prev(certFile, keyFile, opts...)
		if err == nil {
			mu.Lock()
			watchers = append(watchers, w)
			mu.Unlock()
		}
		return w, err
	}
	t.Cleanup(func() { newCertWatcher = prev })
	return func() []*tlsroots.Watcher {
		mu.Lock()
		defer mu.Unlock()
		return append([]*tlsroots.Watcher(nil), watchers...)
	}
}

func tlsServerConfig(t *testing.T) *config.ServerConfig {
	t.Helper()
	dir := t.TempDir()
	certFile := filepath.Join(dir, "s.crt")
	keyFile := filepath.Join(dir, "s.key")
	require.NoError(t, tlsroots.GenerateSelfSigned(certFile, keyFile, []string{"127.0.0.1"}, time.Hour))

	cfg := config.Default()
	cfg.Server.Port = freePort(t)
	cfg.Server.TLS.Enabled = true
	cfg.Server.TLS.Host = "127.0.0.1"
	cfg.Server.TLS.Port = freePort(t)
	cfg.Server.TLS.CertFile = certFile
	cfg.Server.TLS.KeyFile = keyFile
	cfg.Log.Level = "error"
	return cfg
}

func assertStopped(t *testing.T, w *tlsroots.Watcher) {
	t.Helper()
	select {
	case <-w.Done():
	default:
		t.Error("certificate watcher was not stopped")
	}
}

func TestRespConfig_BadClientCAStopsWatcher(t *testing.T) {
	created := recordCertWatchers(t)
	cfg := tlsServerConfig(t)
	cfg.Server.TLS.ClientCAFile = filepath.Join(t.TempDir(), "missing-ca.pem")

	rc, certs, err := respConfig(cfg.Server, logger.Default())
	require.Error(t, err)
	assert.Nil(t, rc)
	assert.Nil(t, certs)

	watchers := created()
	require.Len(t, watchers, 1)
	assertStopped(t, watchers[0])
}

func TestServe_HTTPBindFailureStopsWatcher(t *testing.T) {
	prev := logger.Default()
	t.Cleanup(func() { logger.SetDefault(prev) })

	created := recordCertWatchers(t)
	cfg := tlsServerConfig(t)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	cfg.HTTP.Enabled = true
	cfg.HTTP.Addr = busy.Addr().String()

	err = serve(context.Background(), cfg, options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen admin http")

	watchers := created()
	require.Len(t, watchers, 1)
	assertStopped(t, watchers[0])
}
