package resp

import (
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned by ReadValue when the peer closes the stream in
// the middle of a message. It wraps io.ErrUnexpectedEOF.
var ErrTruncated = fmt.Errorf("resp: stream closed mid-message: %w", io.ErrUnexpectedEOF)

const (
	readChunk = 4096

	// maxEmptyReads bounds consecutive (0, nil) reads before fill gives up.
	maxEmptyReads = 100
)

// Stream reads and writes RESP values over a byte stream.
//
// A Stream is not safe for concurrent use; each connection owns one.
type Stream struct {
	rw  io.ReadWriter
	buf []byte
	out []byte
}

// NewStream returns a Stream over rw.
func NewStream(rw io.ReadWriter) *Stream {
	return &Stream{rw: rw}
}

// ReadValue returns the next complete value.
//
// Bytes already buffered are decoded before any read, so pipelined requests
// are served without waiting on the transport. A clean close between
// messages yields io.EOF; a close with a partial message buffered yields
// ErrTruncated. Malformed input yields an error matching ErrProtocol.
func (s *Stream) ReadValue() (Value, error) {
	for {
		if len(s.buf) > 0 {
			v, n, err := Parse(s.buf)
			if err == nil {
				s.consume(n)
				return v, nil
			}
			if !errors.Is(err, ErrIncomplete) {
				return Value{}, err
			}
		}
		if err := s.fill(); err != nil {
			if errors.Is(err, io.EOF) {
				if len(s.buf) == 0 {
					return Value{}, io.EOF
				}
				return Value{}, ErrTruncated
			}
			return Value{}, err
		}
	}
}

// fill performs one read and appends whatever arrived. A reader that keeps
// returning no data and no error yields io.ErrNoProgress.
func (s *Stream) fill() error {
	if cap(s.buf)-len(s.buf) < readChunk {
		grown := make([]byte, len(s.buf), 2*cap(s.buf)+readChunk)
		copy(grown, s.buf)
		s.buf = grown
	}
	for i := 0; i < maxEmptyReads; i++ {
		n, err := s.rw.Read(s.buf[len(s.buf):cap(s.buf)])
		s.buf = s.buf[:len(s.buf)+n]
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return io.ErrNoProgress
}

// consume drops the first n bytes, keeping the tail at the front of the
// backing array.
func (s *Stream) consume(n int) {
	rest := copy(s.buf, s.buf[n:])
	s.buf = s.buf[:rest]
}

// Buffered reports how many received bytes have not been decoded yet.
func (s *Stream) Buffered() int { return len(s.buf) }

// WriteValue serializes v and writes all of it.
func (s *Stream) WriteValue(v Value) error {
	s.out = v.AppendTo(s.out[:0])
	_, err := s.rw.Write(s.out)
	if cap(s.out) > 64*1024 {
		s.out = nil
	}
	return err
}
