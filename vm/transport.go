package vm

import (
	"bufio"
	"io"
	"os"
)

// ---------------------------------------------------------------------------
// Transports: the byte endpoints the machine reads from and writes to
// ---------------------------------------------------------------------------

// Source is a readable byte endpoint for guest input. A Source blocks until
// a byte is available or reports io.EOF when it is exhausted; the in opcode
// maps exhaustion to ErrHalt.
type Source interface {
	ReadByte() (byte, error)
}

// Sink is a writable byte endpoint for guest output.
type Sink interface {
	WriteByte(c byte) error
}

// Terminal returns a transport pair wired to stdin and stdout for
// interactive play.
func Terminal() (Source, Sink) {
	return bufio.NewReader(os.Stdin), NewWriterSink(os.Stdout)
}

// ---------------------------------------------------------------------------
// Buffer: in-memory transport with retained history
// ---------------------------------------------------------------------------

// Buffer is a growable in-memory byte endpoint usable as both a Source and
// a Sink. Unlike bytes.Buffer it never discards consumed bytes: the full
// history stays addressable while an independent read cursor advances, and
// new bytes may be appended while a cursor is live. Drivers use one Buffer
// to queue future guest input and another to accumulate guest output for
// later inspection.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer creates a Buffer whose unread content starts as b. The slice is
// copied; the caller keeps ownership of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: append([]byte(nil), b...)}
}

// NewBufferString creates a Buffer whose unread content starts as s.
func NewBufferString(s string) *Buffer {
	return &Buffer{data: []byte(s)}
}

// ReadByte consumes and returns the next unread byte, or io.EOF when the
// cursor has caught up with the appended content.
func (b *Buffer) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}

// WriteByte appends one byte.
func (b *Buffer) WriteByte(c byte) error {
	b.data = append(b.data, c)
	return nil
}

// Write appends p. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteString appends s. It never fails.
func (b *Buffer) WriteString(s string) (int, error) {
	b.data = append(b.data, s...)
	return len(s), nil
}

// ReadString consumes bytes up to and including the first occurrence of
// delim. If the buffer is exhausted first, it returns the remaining bytes
// together with io.EOF.
func (b *Buffer) ReadString(delim byte) (string, error) {
	for i := b.pos; i < len(b.data); i++ {
		if b.data[i] == delim {
			s := string(b.data[b.pos : i+1])
			b.pos = i + 1
			return s, nil
		}
	}
	s := string(b.data[b.pos:])
	b.pos = len(b.data)
	return s, io.EOF
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.pos
}

// Size returns the total number of bytes ever appended, read or not.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Bytes returns the full history, including bytes already consumed. The
// slice is valid until the next append.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Unread returns the bytes the cursor has not consumed yet. The slice is
// valid until the next append.
func (b *Buffer) Unread() []byte {
	return b.data[b.pos:]
}

// String returns the full history as a string.
func (b *Buffer) String() string {
	return string(b.data)
}

// Clone returns an independent copy of the buffer, cursor included.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{data: append([]byte(nil), b.data...), pos: b.pos}
}

// ---------------------------------------------------------------------------
// Writer sink and discard sink
// ---------------------------------------------------------------------------

type writerSink struct {
	w io.Writer
}

// NewWriterSink adapts any io.Writer into a Sink, writing one byte per
// guest out instruction.
func NewWriterSink(w io.Writer) Sink {
	if s, ok := w.(Sink); ok {
		return s
	}
	return &writerSink{w: w}
}

func (s *writerSink) WriteByte(c byte) error {
	_, err := s.w.Write([]byte{c})
	return err
}

type discardSink struct{}

func (discardSink) WriteByte(byte) error { return nil }

// Discard is a Sink that drops all guest output.
var Discard Sink = discardSink{}
