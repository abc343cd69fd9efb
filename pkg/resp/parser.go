package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Protocol limits. A frame that exceeds any of them is rejected as malformed
// rather than buffered indefinitely.
const (
	// MaxBulkLen limits the payload of a single bulk string (512MB).
	MaxBulkLen = 512 * 1024 * 1024

	// MaxArrayLen limits the element count of a single array.
	MaxArrayLen = 1024 * 1024

	// MaxLineLen limits a header or simple line waiting for its CRLF (64KB).
	MaxLineLen = 64 * 1024
)

var (
	// ErrIncomplete means the buffer holds a prefix of a message.
	ErrIncomplete = errors.New("resp: incomplete message")

	// ErrProtocol means the buffer does not start with a valid message.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded is returned when a frame exceeds a protocol limit.
	// It matches ErrProtocol as well.
	ErrLimitExceeded = fmt.Errorf("%w: limit exceeded", ErrProtocol)
)

var crlf = []byte("\r\n")

// Parse decodes the first complete message in buf.
//
// On success it returns the value and the number of bytes it occupied.
// If buf only holds a prefix of a message it returns ErrIncomplete and
// consumes nothing, so the caller can append more bytes and retry.
// Malformed input yields an error matching ErrProtocol.
//
// Parse does not retain buf; the returned Value owns its strings.
func Parse(buf []byte) (Value, int, error) {
	p := parser{buf: buf}
	v, err := p.value(0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, p.pos, nil
}

// parser walks a single buffer with a cursor. Nested arrays advance the same
// cursor so no sub-slices are copied while decoding.
type parser struct {
	buf []byte
	pos int
}

// maxDepth bounds array nesting so hostile input cannot exhaust the stack.
const maxDepth = 512

func (p *parser) value(depth int) (Value, error) {
	if p.pos >= len(p.buf) {
		return Value{}, ErrIncomplete
	}
	tag := p.buf[p.pos]
	switch tag {
	case '+':
		line, err := p.line()
		if err != nil {
			return Value{}, err
		}
		return SimpleString(string(line)), nil
	case '-':
		line, err := p.line()
		if err != nil {
			return Value{}, err
		}
		return Error(string(line)), nil
	case ':':
		line, err := p.line()
		if err != nil {
			return Value{}, err
		}
		n, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: invalid integer %q", ErrProtocol, line)
		}
		return Integer(n), nil
	case '$':
		return p.bulk()
	case '*':
		return p.array(depth)
	case '#':
		return p.boolean()
	default:
		return Value{}, fmt.Errorf("%w: unexpected type byte %q", ErrProtocol, tag)
	}
}

// line returns the bytes between the type byte and the next CRLF and moves
// the cursor past the CRLF.
func (p *parser) line() ([]byte, error) {
	start := p.pos + 1
	rest := p.buf[start:]
	window := rest
	if len(window) > MaxLineLen+2 {
		window = window[:MaxLineLen+2]
	}
	i := bytes.Index(window, crlf)
	if i < 0 && len(rest) > MaxLineLen+1 {
		return nil, fmt.Errorf("%w: line longer than %d bytes", ErrLimitExceeded, MaxLineLen)
	}
	if i < 0 {
		return nil, ErrIncomplete
	}
	p.pos = start + i + 2
	return rest[:i], nil
}

// length parses a $ or * header. -1 is the null marker.
func (p *parser) length(what string) (int, error) {
	line, err := p.line()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(line))
	if err != nil || n < -1 {
		return 0, fmt.Errorf("%w: invalid %s length %q", ErrProtocol, what, line)
	}
	return n, nil
}

func (p *parser) bulk() (Value, error) {
	n, err := p.length("bulk")
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		return Null(), nil
	}
	if n > MaxBulkLen {
		return Value{}, fmt.Errorf("%w: bulk length %d exceeds %d", ErrLimitExceeded, n, MaxBulkLen)
	}
	if len(p.buf)-p.pos < n+2 {
		return Value{}, ErrIncomplete
	}
	payload := p.buf[p.pos : p.pos+n]
	if p.buf[p.pos+n] != '\r' || p.buf[p.pos+n+1] != '\n' {
		return Value{}, fmt.Errorf("%w: bulk string not terminated by CRLF", ErrProtocol)
	}
	p.pos += n + 2
	return BulkString(string(payload)), nil
}

func (p *parser) array(depth int) (Value, error) {
	if depth >= maxDepth {
		return Value{}, fmt.Errorf("%w: arrays nested deeper than %d", ErrLimitExceeded, maxDepth)
	}
	n, err := p.length("array")
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		return Null(), nil
	}
	if n > MaxArrayLen {
		return Value{}, fmt.Errorf("%w: array length %d exceeds %d", ErrLimitExceeded, n, MaxArrayLen)
	}
	if n == 0 {
		return Array(), nil
	}
	// Each element takes at least 3 bytes; don't preallocate for counts the
	// buffer cannot possibly hold yet.
	capHint := n
	if remaining := (len(p.buf) - p.pos) / 3; capHint > remaining {
		capHint = remaining
	}
	elems := make([]Value, 0, capHint)
	for i := 0; i < n; i++ {
		e, err := p.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, e)
	}
	return Value{kind: KindArray, arr: elems}, nil
}

func (p *parser) boolean() (Value, error) {
	if len(p.buf)-p.pos < 4 {
		return Value{}, ErrIncomplete
	}
	frame := p.buf[p.pos : p.pos+4]
	if frame[2] != '\r' || frame[3] != '\n' {
		return Value{}, fmt.Errorf("%w: boolean not terminated by CRLF", ErrProtocol)
	}
	var b bool
	switch frame[1] {
	case 't':
		b = true
	case 'f':
	default:
		return Value{}, fmt.Errorf("%w: invalid boolean %q", ErrProtocol, frame[1])
	}
	p.pos += 4
	return Boolean(b), nil
}
