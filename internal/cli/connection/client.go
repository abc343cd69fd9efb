package connection

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/yndnr/respkv/internal/infra/tlsroots"
	"github.com/yndnr/respkv/pkg/resp"
)

// DefaultTimeout bounds dialing and each request round trip.
const DefaultTimeout = 10 * time.Second

// ErrClosed is returned by Do after Close.
var ErrClosed = errors.New("connection closed")

// TLSOptions configures verification for TLS targets.
type TLSOptions struct {
	// CAFile replaces the system roots with the certificates in this file.
	CAFile string
	// CertFile and KeyFile present a client certificate for mutual TLS.
	CertFile string
	KeyFile  string
	// ServerName overrides the name checked against the server certificate.
	ServerName string
	// Insecure skips server certificate verification.
	Insecure bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the dial and per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithTLS sets the TLS options used when the target requires TLS.
func WithTLS(o TLSOptions) Option {
	return func(c *Client) {
		c.tlsOpts = o
	}
}

// Client is a synchronous RESP client. It is not safe for concurrent use.
type Client struct {
	target  Target
	timeout time.Duration
	tlsOpts TLSOptions

	conn   net.Conn
	stream *resp.Stream
}

// Dial connects to t.
func Dial(ctx context.Context, t Target, opts ...Option) (*Client, error) {
	c := &Client{target: t, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var (
		conn net.Conn
		err  error
	)
	d := &net.Dialer{}
	if t.TLS {
		cfg, cerr := c.tlsConfig()
		if cerr != nil {
			return nil, cerr
		}
		conn, err = (&tls.Dialer{NetDialer: d, Config: cfg}).DialContext(ctx, t.Network, t.Addr())
	} else {
		conn, err = d.DialContext(ctx, t.Network, t.Addr())
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", t, err)
	}

	c.conn = conn
	c.stream = resp.NewStream(conn)
	return c, nil
}

func (c *Client) tlsConfig() (*tls.Config, error) {
	var pool *tlsroots.Pool
	if c.tlsOpts.CAFile != "" {
		pool = tlsroots.NewEmptyPool()
		if err := pool.AddCertFile(c.tlsOpts.CAFile); err != nil {
			return nil, err
		}
	} else {
		var err error
		if pool, err = tlsroots.NewPool(); err != nil {
			return nil, err
		}
	}

	serverName := c.tlsOpts.ServerName
	if serverName == "" {
		serverName = c.target.Host
	}
	cfg := pool.ClientConfig(serverName)
	cfg.InsecureSkipVerify = c.tlsOpts.Insecure

	if c.tlsOpts.CertFile != "" {
		return tlsroots.WithClientCert(cfg, c.tlsOpts.CertFile, c.tlsOpts.KeyFile)
	}
	return cfg, nil
}

// Target returns the endpoint the client is connected to.
func (c *Client) Target() Target {
	return c.target
}

// Do sends args as an array of bulk strings and returns the reply. Error
// replies are returned as values; the error result reports transport and
// framing failures only.
func (c *Client) Do(args ...string) (resp.Value, error) {
	if c.conn == nil {
		return resp.Value{}, ErrClosed
	}
	if len(args) == 0 {
		return resp.Value{}, errors.New("empty command")
	}

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return resp.Value{}, err
		}
	}

	elems := make([]resp.Value, len(args))
	for i, a := range args {
		elems[i] = resp.BulkString(a)
	}
	if err := c.stream.WriteValue(resp.Array(elems...)); err != nil {
		return resp.Value{}, fmt.Errorf("send: %w", err)
	}

	v, err := c.stream.ReadValue()
	if err != nil {
		return resp.Value{}, fmt.Errorf("read reply: %w", err)
	}
	return v, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
