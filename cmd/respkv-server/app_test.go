package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yndnr/respkv/internal/server/config"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/pkg/resp"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"respkv-server"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "respkv.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0600))
	return p
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "respkv-server ")
	assert.Contains(t, out, "platform:")
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7000\n  host: 0.0.0.0\nlog:\n  level: debug\n")
	t.Setenv("RESPKV_SERVER__PORT", "7100")

	cfg, err := loadConfig(options{
		configFile: path,
		overrides:  map[string]any{"log.level": "warn"},
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "file value")
	assert.Equal(t, 7100, cfg.Server.Port, "env beats file")
	assert.Equal(t, "warn", cfg.Log.Level, "flag beats file")
	assert.Equal(t, config.DefaultWriteTimeout, cfg.Server.WriteTimeout, "default kept")
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 70000\n")

	_, err := loadConfig(options{configFile: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestConfigDump(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7001\n")

	out, err := runApp(t, "--config", path, "--log-level", "error", "config", "dump")
	require.NoError(t, err)

	var dumped config.ServerConfig
	require.NoError(t, yaml.Unmarshal([]byte(out), &dumped))
	assert.Equal(t, 7001, dumped.Server.Port)
	assert.Equal(t, "error", dumped.Log.Level)
}

func TestCertGenerate(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "s.crt")
	keyFile := filepath.Join(dir, "s.key")

	out, err := runApp(t, "cert", "generate", "--cert", certFile, "--key", keyFile, "--san", "example.test")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	assert.FileExists(t, certFile)
	assert.FileExists(t, keyFile)

	fi, err := os.Stat(keyFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServe_EndToEnd(t *testing.T) {
	prev := logger.Default()
	t.Cleanup(func() { logger.SetDefault(prev) })

	cfg := config.Default()
	cfg.Server.Port = freePort(t)
	cfg.Log.Level = "error"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, options{}) }()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	var nc net.Conn
	require.Eventually(t, func() bool {
		var err error
		nc, err = net.Dial("tcp", addr)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	defer nc.Close()

	s := resp.NewStream(nc)
	require.NoError(t, s.WriteValue(resp.Array(resp.BulkString("SET"), resp.BulkString("k"), resp.BulkString("v"))))
	v, err := s.ReadValue()
	require.NoError(t, err)
	assert.True(t, v.Equal(resp.SimpleString("OK")))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop")
	}
}
