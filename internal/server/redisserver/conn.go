package redisserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/core/command"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
	"github.com/yndnr/respkv/pkg/resp"
)

// conn is a single client connection.
type conn struct {
	id      string
	netConn net.Conn
	stream  *resp.Stream
	// client keys the rate limiter: the remote IP, or the network name for
	// unix sockets.
	client string

	closed atomic.Bool
}

func newConn(nc net.Conn) *conn {
	return &conn{
		id:      ulid.Make().String(),
		netConn: nc,
		stream:  resp.NewStream(nc),
		client:  clientKey(nc.RemoteAddr()),
	}
}

func clientKey(addr net.Addr) string {
	if addr == nil {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(addr.String()); err == nil {
		return host
	}
	return addr.Network()
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

func (s *Server) serveConn(ctx context.Context, c *conn) {
	ctx = logger.WithConnID(logger.WithLogger(ctx, s.logger), c.id)
	log := logger.L(ctx).With("remote", c.netConn.RemoteAddr().String())

	defer func() {
		if r := recover(); r != nil {
			log.Error("connection handler panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	log.Debug("client connected")

	for {
		if s.cfg.IdleTimeout > 0 {
			if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout)); err != nil {
				return
			}
		}

		req, err := c.stream.ReadValue()
		if err != nil {
			s.readFailed(c, log, err)
			return
		}

		reply := s.handle(c, req)

		if s.cfg.WriteTimeout > 0 {
			if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				return
			}
		}
		if err := c.stream.WriteValue(reply); err != nil {
			log.Debug("write failed", "error", err)
			return
		}
	}
}

// readFailed logs why a connection stopped reading and, for a framing
// error, sends the client a final error reply.
func (s *Server) readFailed(c *conn, log logger.Logger, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		log.Debug("client disconnected")
	case errors.Is(err, resp.ErrTruncated):
		log.Debug("client disconnected mid-request", "buffered", c.stream.Buffered())
	case errors.Is(err, resp.ErrProtocol):
		s.metrics.ProtocolError()
		log.Warn("protocol error", "error", err)
		if s.cfg.WriteTimeout > 0 {
			_ = c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		_ = c.stream.WriteValue(protocolErrorReply(err))
	case errors.As(err, &netErr) && netErr.Timeout():
		log.Debug("connection timed out")
	case c.closed.Load():
		log.Debug("connection closed")
	default:
		log.Debug("connection read error", "error", err)
	}
}

func protocolErrorReply(err error) resp.Value {
	reason := strings.TrimPrefix(err.Error(), resp.ErrProtocol.Error()+": ")
	return resp.Error("ERR Protocol error: " + reason)
}

// handle turns one request into its reply.
func (s *Server) handle(c *conn, req resp.Value) resp.Value {
	name, args, ok := req.Command()
	if !ok {
		return command.ErrorReply(command.ErrInvalidFormat)
	}

	if s.limiter != nil && !s.limiter.allow(c.client) {
		s.metrics.Limited()
		return resp.Error("ERR rate limit exceeded")
	}

	start := time.Now()
	reply := s.exec.Execute(name, args)

	status := metric.StatusOK
	if reply.Kind() == resp.KindError {
		status = metric.StatusError
	}
	s.metrics.ObserveCommand(command.Lookup(name).String(), status, time.Since(start))

	return reply
}
