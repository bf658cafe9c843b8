// Package codec provides byte-exact little/big-endian primitives for persisting
// genomes and populations.
//
// Every read and write names its width and byte order explicitly. Strings are
// not self-delimiting: the caller records the byte length separately.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is returned when a read or seek would cross the end of the buffer.
var ErrOutOfRange = errors.New("codec: cursor out of range")

// ByteOrder is a byte order that can both decode and append.
// binary.LittleEndian and binary.BigEndian satisfy it.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var (
	LittleEndian ByteOrder = binary.LittleEndian
	BigEndian    ByteOrder = binary.BigEndian
)

// --------------------------- Writer ---------------------------

// Writer accumulates encoded values into a growable byte slice.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) WriteUint8(v uint8) { w.buf = append(w.buf, v) }
func (w *Writer) WriteInt8(v int8)   { w.buf = append(w.buf, uint8(v)) }

func (w *Writer) WriteUint16(v uint16, order ByteOrder) { w.buf = order.AppendUint16(w.buf, v) }
func (w *Writer) WriteInt16(v int16, order ByteOrder)   { w.buf = order.AppendUint16(w.buf, uint16(v)) }
func (w *Writer) WriteUint32(v uint32, order ByteOrder) { w.buf = order.AppendUint32(w.buf, v) }
func (w *Writer) WriteInt32(v int32, order ByteOrder)   { w.buf = order.AppendUint32(w.buf, uint32(v)) }
func (w *Writer) WriteUint64(v uint64, order ByteOrder) { w.buf = order.AppendUint64(w.buf, v) }
func (w *Writer) WriteInt64(v int64, order ByteOrder)   { w.buf = order.AppendUint64(w.buf, uint64(v)) }

// WriteFloat32 writes the IEEE-754 bits of v, so NaN payloads and -0 survive.
func (w *Writer) WriteFloat32(v float32, order ByteOrder) {
	w.buf = order.AppendUint32(w.buf, math.Float32bits(v))
}

// WriteFloat64 writes the IEEE-754 bits of v, so NaN payloads and -0 survive.
func (w *Writer) WriteFloat64(v float64, order ByteOrder) {
	w.buf = order.AppendUint64(w.buf, math.Float64bits(v))
}

// WriteString appends the UTF-8 bytes of s without any length prefix and
// returns the number of bytes written.
func (w *Writer) WriteString(s string) int {
	w.buf = append(w.buf, s...)
	return len(s)
}

// WriteBytes appends p verbatim.
func (w *Writer) WriteBytes(p []byte) {
	w.buf = append(w.buf, p...)
}

// --------------------------- Reader ---------------------------

// Reader decodes values from a fixed byte slice through a repositionable cursor.
// Every successful read advances the cursor past the value; a failed read
// leaves the cursor where it was.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the cursor position.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes after the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek moves the cursor to an absolute position in [0, Len()].
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return fmt.Errorf("%w: seek to %d in buffer of %d bytes", ErrOutOfRange, pos, len(r.buf))
	}
	r.pos = pos
	return nil
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, fmt.Errorf("%w: read of %d bytes at %d in buffer of %d bytes", ErrOutOfRange, n, r.pos, len(r.buf))
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	p, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadUint16(order ByteOrder) (uint16, error) {
	p, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(p), nil
}

func (r *Reader) ReadInt16(order ByteOrder) (int16, error) {
	v, err := r.ReadUint16(order)
	return int16(v), err
}

func (r *Reader) ReadUint32(order ByteOrder) (uint32, error) {
	p, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(p), nil
}

func (r *Reader) ReadInt32(order ByteOrder) (int32, error) {
	v, err := r.ReadUint32(order)
	return int32(v), err
}

func (r *Reader) ReadUint64(order ByteOrder) (uint64, error) {
	p, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(p), nil
}

func (r *Reader) ReadInt64(order ByteOrder) (int64, error) {
	v, err := r.ReadUint64(order)
	return int64(v), err
}

func (r *Reader) ReadFloat32(order ByteOrder) (float32, error) {
	v, err := r.ReadUint32(order)
	return math.Float32frombits(v), err
}

func (r *Reader) ReadFloat64(order ByteOrder) (float64, error) {
	v, err := r.ReadUint64(order)
	return math.Float64frombits(v), err
}

// ReadString reads exactly n bytes and returns them as a string.
func (r *Reader) ReadString(n int) (string, error) {
	p, err := r.take(n)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// ReadBytes reads exactly n bytes. The returned slice is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	p, err := r.take(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), p...), nil
}
