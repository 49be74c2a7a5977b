package binfmt

import (
	"bytes"
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Header()
	w.Int(-7)
	w.Bool(true)
	w.Ints([]int{1, 2, 3})
	w.Tables([][]int{{4}, {}, {5, -6}})
	w.String("Greek")
	n, err := w.Flush()
	assert.NilError(t, err)
	assert.Equal(t, n, int64(buf.Len()))

	r := NewReader(&buf)
	version, err := r.Header()
	assert.NilError(t, err)
	assert.Equal(t, version, Version)
	assert.Equal(t, r.Int(), -7)
	assert.Equal(t, r.Bool(), true)
	assert.DeepEqual(t, r.Ints(), []int{1, 2, 3})
	assert.DeepEqual(t, r.Tables(), [][]int{{4}, {}, {5, -6}})
	assert.Equal(t, r.String(), "Greek")
	assert.NilError(t, r.Err())
}

func TestBadMagic(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Int(42)
	w.Int(Version)
	_, err := w.Flush()
	assert.NilError(t, err)

	_, err = NewReader(&buf).Header()
	assert.Assert(t, errors.Is(err, ErrBadMagic), "got %v", err)
}

func TestMalformed(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		read  func(r *Reader)
	}{
		{
			name:  "negative length",
			write: func(w *Writer) { w.Int(-1) },
			read:  func(r *Reader) { r.Ints() },
		},
		{
			name:  "oversized length",
			write: func(w *Writer) { w.Int(MaxLen + 1) },
			read:  func(r *Reader) { r.Tables() },
		},
		{
			name:  "truncated array",
			write: func(w *Writer) { w.Int(3); w.Int(1) },
			read:  func(r *Reader) { r.Ints() },
		},
		{
			name:  "truncated string",
			write: func(w *Writer) { w.Int(10); w.Int(0) },
			read:  func(r *Reader) { _ = r.String() },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			tt.write(w)
			_, err := w.Flush()
			assert.NilError(t, err)

			r := NewReader(&buf)
			tt.read(r)
			assert.Assert(t, errors.Is(r.Err(), ErrMalformed), "got %v", r.Err())
			// sticky: later reads return zero values
			assert.Equal(t, r.Int(), 0)
		})
	}
}
