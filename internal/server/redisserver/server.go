package redisserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// Reasons reported to metric.Registry.ConnRejected.
const (
	RejectMaxClients = "max_clients"
)

// Config holds the listener and connection settings.
type Config struct {
	// Addr is the plain TCP address. Empty disables the plain listener.
	Addr string
	// TLSAddr is the TLS address. Used only when TLSConfig is set.
	TLSAddr string
	// TLSConfig enables the TLS listener.
	TLSConfig *tls.Config
	// SocketPath enables a unix socket listener.
	SocketPath string
	// IdleTimeout closes connections that send nothing for this long (0 = never).
	IdleTimeout time.Duration
	// WriteTimeout bounds writing a single reply (0 = no deadline).
	WriteTimeout time.Duration
	// MaxConnections caps concurrent clients (0 = unlimited).
	MaxConnections int
	// RateLimit is the number of commands per second allowed per client
	// address (0 = unlimited).
	RateLimit float64
	// RateBurst is the token bucket size for RateLimit.
	RateBurst int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:         "127.0.0.1:6379",
		WriteTimeout: 30 * time.Second,
		RateBurst:    100,
	}
}

// Executor runs one parsed command.
type Executor interface {
	Execute(name string, args []string) resp.Value
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry. A nil registry disables metrics.
func WithMetrics(m *metric.Registry) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// Server is the RESP server.
type Server struct {
	cfg     *Config
	exec    Executor
	logger  logger.Logger
	metrics *metric.Registry
	limiter *rateLimiter

	mu        sync.Mutex
	listeners []net.Listener
	conns     map[*conn]struct{}

	active  atomic.Int64
	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a server that runs requests through exec.
func New(cfg *Config, exec Executor, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{
		cfg:    cfg,
		exec:   exec,
		logger: logger.Default(),
		conns:  make(map[*conn]struct{}),
	}
	s.running.Store(true)
	for _, opt := range opts {
		opt(s)
	}

	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	return s
}

// Start opens every configured listener and serves them in the background.
// It returns once all listeners are bound; a bind failure closes the ones
// already opened.
func (s *Server) Start(ctx context.Context) error {
	var lns []net.Listener
	fail := func(err error) error {
		for _, ln := range lns {
			_ = ln.Close()
		}
		return err
	}

	if s.cfg.Addr != "" {
		ln, err := net.Listen("tcp", s.cfg.Addr)
		if err != nil {
			return fail(fmt.Errorf("listen %s: %w", s.cfg.Addr, err))
		}
		lns = append(lns, ln)
	}

	if s.cfg.TLSConfig != nil {
		ln, err := tls.Listen("tcp", s.cfg.TLSAddr, s.cfg.TLSConfig)
		if err != nil {
			return fail(fmt.Errorf("listen tls %s: %w", s.cfg.TLSAddr, err))
		}
		lns = append(lns, ln)
	}

	if s.cfg.SocketPath != "" {
		ln, err := listenUnix(s.cfg.SocketPath)
		if err != nil {
			return fail(err)
		}
		lns = append(lns, ln)
	}

	if len(lns) == 0 {
		return errors.New("no listener configured")
	}

	for _, ln := range lns {
		if !s.track(ln) {
			return fail(errors.New("server is shut down"))
		}
	}

	for _, ln := range lns {
		s.logger.Info("listening", "network", ln.Addr().Network(), "address", ln.Addr().String())
		s.wg.Add(1)
		go func(ln net.Listener) {
			defer s.wg.Done()
			if err := s.Serve(ctx, ln); err != nil {
				s.logger.Error("listener stopped", "address", ln.Addr().String(), "error", err)
			}
		}(ln)
	}

	return nil
}

// listenUnix removes a stale socket file left by a previous run before
// binding path.
func listenUnix(path string) (net.Listener, error) {
	if fi, err := os.Lstat(path); err == nil {
		if fi.Mode()&os.ModeSocket == 0 {
			return nil, fmt.Errorf("listen unix %s: file exists and is not a socket", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove stale socket %s: %w", path, err)
		}
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen unix %s: %w", path, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ln is closed, ctx is done or
// Shutdown is called. The listener is owned by the server afterwards.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.track(ln) {
		_ = ln.Close()
		return nil
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-stop:
		}
	}()

	var backoff time.Duration
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				return nil
			}
			// Accept failures such as EMFILE are usually transient.
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else if backoff *= 2; backoff > time.Second {
				backoff = time.Second
			}
			s.logger.Warn("accept failed, retrying", "error", err, "retry_in", backoff)
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		if limit := s.cfg.MaxConnections; limit > 0 && s.active.Load() >= int64(limit) {
			s.reject(nc)
			continue
		}

		c := newConn(nc)
		if !s.add(c) {
			_ = nc.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.remove(c)
			s.serveConn(ctx, c)
		}()
	}
}

// reject tells a client over the connection cap why it is being dropped.
func (s *Server) reject(nc net.Conn) {
	s.metrics.ConnRejected(RejectMaxClients)
	s.logger.Warn("connection rejected", "remote", nc.RemoteAddr().String(), "reason", RejectMaxClients)

	_ = nc.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = resp.Error("ERR max number of clients reached").WriteTo(nc)
	_ = nc.Close()
}

// track records ln for Addrs and Shutdown. It reports false once the
// server is shutting down.
func (s *Server) track(ln net.Listener) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	for _, l := range s.listeners {
		if l == ln {
			return true
		}
	}
	s.listeners = append(s.listeners, ln)
	return true
}

func (s *Server) add(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.active.Add(1)
	s.metrics.ConnOpened()
	return true
}

func (s *Server) remove(c *conn) {
	_ = c.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[c]; ok {
		delete(s.conns, c)
		s.active.Add(-1)
		s.metrics.ConnClosed()
	}
}

// Addrs returns the addresses of the listeners being served.
func (s *Server) Addrs() []net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	addrs := make([]net.Addr, 0, len(s.listeners))
	for _, ln := range s.listeners {
		addrs = append(addrs, ln.Addr())
	}
	return addrs
}

// Serving reports whether the server has listeners and has not been shut
// down.
func (s *Server) Serving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running.Load() && len(s.listeners) > 0
}

// ActiveConnections returns the number of open client connections.
func (s *Server) ActiveConnections() int {
	return int(s.active.Load())
}

// Shutdown stops accepting, closes every client connection and waits for
// connection goroutines to exit or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)

	var firstErr error

	s.mu.Lock()
	for _, ln := range s.listeners {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}
