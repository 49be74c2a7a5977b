// Package binfmt implements the array-oriented binary framing used to persist
// compiled automata.
//
// Every value is a big-endian int32. Arrays are written as a length followed by
// their elements, nested arrays as a count followed by each array. A stream
// starts with Magic and Version. Readers and writers keep the first error and
// turn every later call into a no-op, so callers check Err once at the end.
package binfmt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/coregx/multiregex/internal/conv"
)

const (
	// Magic opens every serialized automaton.
	Magic = (19720122 << 2) | 3

	// Version is written after Magic. Readers accept other versions.
	Version = (1 << 8) | 2

	// MaxLen bounds any single length prefix.
	MaxLen = 1 << 28
)

var (
	// ErrBadMagic indicates the stream does not start with Magic.
	ErrBadMagic = errors.New("binfmt: bad magic")

	// ErrMalformed indicates a truncated stream or an invalid length prefix.
	ErrMalformed = errors.New("binfmt: malformed input")
)

// Writer encodes values onto an io.Writer.
type Writer struct {
	w   *bufio.Writer
	buf [4]byte
	n   int64
	err error
}

// NewWriter returns a Writer that buffers output to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Header writes Magic and Version.
func (w *Writer) Header() {
	w.Int(Magic)
	w.Int(Version)
}

// Int writes a single value.
func (w *Writer) Int(v int) {
	if w.err != nil {
		return
	}
	binary.BigEndian.PutUint32(w.buf[:], uint32(conv.IntToInt32(v)))
	n, err := w.w.Write(w.buf[:])
	w.n += int64(n)
	w.err = err
}

// Bool writes 1 or 0.
func (w *Writer) Bool(b bool) {
	if b {
		w.Int(1)
	} else {
		w.Int(0)
	}
}

// Ints writes a length-prefixed array.
func (w *Writer) Ints(v []int) {
	w.Int(len(v))
	for _, x := range v {
		w.Int(x)
	}
}

// Tables writes a count followed by each array.
func (w *Writer) Tables(v [][]int) {
	w.Int(len(v))
	for _, t := range v {
		w.Ints(t)
	}
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(s string) {
	w.Int(len(s))
	if w.err != nil {
		return
	}
	n, err := w.w.WriteString(s)
	w.n += int64(n)
	w.err = err
}

// Flush flushes buffered output and returns the bytes written and the first
// error encountered.
func (w *Writer) Flush() (int64, error) {
	if w.err == nil {
		w.err = w.w.Flush()
	}
	return w.n, w.err
}

// Reader decodes values from an io.Reader.
type Reader struct {
	r   *bufio.Reader
	buf [4]byte
	err error
}

// NewReader returns a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

// Header reads and checks Magic and returns the stored version.
func (r *Reader) Header() (int, error) {
	magic := r.Int()
	if r.err != nil {
		return 0, r.err
	}
	if magic != Magic {
		r.err = fmt.Errorf("%w: got %#x", ErrBadMagic, magic)
		return 0, r.err
	}
	version := r.Int()
	return version, r.err
}

// Int reads a single value. It returns 0 once an error has occurred.
func (r *Reader) Int() int {
	if r.err != nil {
		return 0
	}
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		r.err = fmt.Errorf("%w: %w", ErrMalformed, err)
		return 0
	}
	return int(int32(binary.BigEndian.Uint32(r.buf[:])))
}

// Bool reads a value written by Writer.Bool.
func (r *Reader) Bool() bool {
	return r.Int() != 0
}

// Len reads a length prefix and validates it.
func (r *Reader) Len() int {
	n := r.Int()
	if r.err != nil {
		return 0
	}
	if n < 0 || n > MaxLen {
		r.err = fmt.Errorf("%w: length %d", ErrMalformed, n)
		return 0
	}
	return n
}

// Ints reads a length-prefixed array.
func (r *Reader) Ints() []int {
	n := r.Len()
	if r.err != nil {
		return nil
	}
	// grow as values arrive so a corrupt prefix cannot force a huge allocation
	out := make([]int, 0, min(n, 4096))
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.Int())
	}
	if r.err != nil {
		return nil
	}
	return out
}

// Tables reads a count followed by that many arrays.
func (r *Reader) Tables() [][]int {
	n := r.Len()
	if r.err != nil {
		return nil
	}
	out := make([][]int, 0, min(n, 4096))
	for i := 0; i < n && r.err == nil; i++ {
		out = append(out, r.Ints())
	}
	if r.err != nil {
		return nil
	}
	return out
}

// String reads a length-prefixed string.
func (r *Reader) String() string {
	n := r.Len()
	if r.err != nil || n == 0 {
		return ""
	}
	b := make([]byte, 0, min(n, 4096))
	for len(b) < n && r.err == nil {
		chunk := min(n-len(b), 4096)
		start := len(b)
		b = append(b, make([]byte, chunk)...)
		if _, err := io.ReadFull(r.r, b[start:]); err != nil {
			r.err = fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	if r.err != nil {
		return ""
	}
	return string(b)
}

// Fail records err unless an error is already stored. Decoders use it to
// report structural problems found after reading.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}
