package connection

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied when a URI leaves host or port out.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 6379
)

var (
	// ErrInvalidURI is returned for URIs ParseURI cannot use.
	ErrInvalidURI = errors.New("invalid uri")
)

// Target identifies a server endpoint.
type Target struct {
	// Network is "tcp" or "unix".
	Network string
	Host    string
	Port    int
	// Path is the socket path for unix targets.
	Path string
	// TLS wraps the TCP connection in TLS.
	TLS bool
}

// NewTarget returns a plain TCP target for host and port.
func NewTarget(host string, port int) Target {
	return Target{Network: "tcp", Host: normalizeHost(host), Port: port}
}

// Addr returns the dial address.
func (t Target) Addr() string {
	if t.Network == "unix" {
		return t.Path
	}
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// String returns the address shown in the prompt.
func (t Target) String() string {
	return t.Addr()
}

// ParseURI parses a kv://, kvs://, redis://, rediss:// or unix:// URI.
// Credentials in the URI are accepted and ignored.
func ParseURI(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("%w %q: %v", ErrInvalidURI, raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "kv", "redis":
	case "kvs", "rediss":
		t, err := parseTCP(raw, u)
		if err != nil {
			return Target{}, err
		}
		t.TLS = true
		return t, nil
	case "unix":
		p := u.Path
		if p == "" {
			p = u.Opaque
		}
		if p == "" {
			return Target{}, fmt.Errorf("%w %q: missing socket path", ErrInvalidURI, raw)
		}
		return Target{Network: "unix", Path: p}, nil
	case "":
		return Target{}, fmt.Errorf("%w %q: missing scheme, expected kv://host:port", ErrInvalidURI, raw)
	default:
		return Target{}, fmt.Errorf("%w %q: unsupported scheme %q", ErrInvalidURI, raw, u.Scheme)
	}

	return parseTCP(raw, u)
}

func parseTCP(raw string, u *url.URL) (Target, error) {
	if u.Path != "" && u.Path != "/" {
		return Target{}, fmt.Errorf("%w %q: unexpected path %q", ErrInvalidURI, raw, u.Path)
	}

	t := Target{Network: "tcp", Host: normalizeHost(u.Hostname()), Port: DefaultPort}
	if p := u.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return Target{}, fmt.Errorf("%w %q: bad port %q", ErrInvalidURI, raw, p)
		}
		t.Port = port
	}
	return t, nil
}

func normalizeHost(h string) string {
	switch strings.ToLower(h) {
	case "":
		return DefaultHost
	case "localhost":
		return "127.0.0.1"
	}
	return h
}
