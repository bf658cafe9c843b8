package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orders = map[string]ByteOrder{"little": LittleEndian, "big": BigEndian}

func TestIntegerRoundTrip(t *testing.T) {
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(0)
			w.WriteUint8(math.MaxUint8)
			w.WriteInt8(-1)
			w.WriteUint16(math.MaxUint16, order)
			w.WriteInt16(math.MinInt16, order)
			w.WriteUint32(math.MaxUint32, order)
			w.WriteInt32(math.MaxInt32, order)
			w.WriteUint64(math.MaxUint64, order)
			w.WriteInt64(math.MaxInt64, order)
			w.WriteInt64(-1, order)
			w.WriteInt64(0, order)
			w.WriteUint32(1, order)
			require.Equal(t, 1+1+2+2+4+4+8+8+8+8+4, w.Len())

			r := NewReader(w.Bytes())
			u8, err := r.ReadUint8()
			require.NoError(t, err)
			assert.Equal(t, uint8(math.MaxUint8), u8)
			i8, err := r.ReadInt8()
			require.NoError(t, err)
			assert.Equal(t, int8(-1), i8)
			u16, err := r.ReadUint16(order)
			require.NoError(t, err)
			assert.Equal(t, uint16(math.MaxUint16), u16)
			i16, err := r.ReadInt16(order)
			require.NoError(t, err)
			assert.Equal(t, int16(math.MinInt16), i16)
			u32, err := r.ReadUint32(order)
			require.NoError(t, err)
			assert.Equal(t, uint32(math.MaxUint32), u32)
			i32, err := r.ReadInt32(order)
			require.NoError(t, err)
			assert.Equal(t, int32(math.MaxInt32), i32)
			u64, err := r.ReadUint64(order)
			require.NoError(t, err)
			assert.Equal(t, uint64(math.MaxUint64), u64)
			for _, want := range []int64{math.MaxInt64, -1, 0} {
				got, err := r.ReadInt64(order)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
			one, err := r.ReadUint32(order)
			require.NoError(t, err)
			assert.Equal(t, uint32(1), one)
			assert.Zero(t, r.Remaining())
		})
	}
}

func TestFloatRoundTripIsBitExact(t *testing.T) {
	f32 := []float32{0, float32(math.Copysign(0, -1)), 1.5, math.SmallestNonzeroFloat32, math.MaxFloat32, float32(math.Inf(-1))}
	f64 := []float64{0, math.Copysign(0, -1), 1.5, math.SmallestNonzeroFloat64, math.MaxFloat64, math.Inf(1)}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(0)
			for _, v := range f32 {
				w.WriteFloat32(v, order)
			}
			for _, v := range f64 {
				w.WriteFloat64(v, order)
			}
			w.WriteFloat64(math.NaN(), order)

			r := NewReader(w.Bytes())
			for _, want := range f32 {
				got, err := r.ReadFloat32(order)
				require.NoError(t, err)
				assert.Equal(t, math.Float32bits(want), math.Float32bits(got))
			}
			for _, want := range f64 {
				got, err := r.ReadFloat64(order)
				require.NoError(t, err)
				assert.Equal(t, math.Float64bits(want), math.Float64bits(got))
			}
			nan, err := r.ReadFloat64(order)
			require.NoError(t, err)
			assert.True(t, math.IsNaN(nan))
		})
	}
}

func TestByteLayout(t *testing.T) {
	le := NewWriter(4)
	le.WriteUint32(0x01020304, LittleEndian)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, le.Bytes())

	be := NewWriter(4)
	be.WriteUint32(0x01020304, BigEndian)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be.Bytes())

	r := NewReader(le.Bytes())
	v, err := r.ReadUint32(BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04030201), v)
}

func TestStringsAndBytes(t *testing.T) {
	var w Writer
	n := w.WriteString("héllo")
	assert.Equal(t, 6, n)
	w.WriteBytes([]byte{9, 8})
	assert.Equal(t, 8, w.Len())

	r := NewReader(w.Bytes())
	s, err := r.ReadString(n)
	require.NoError(t, err)
	assert.Equal(t, "héllo", s)

	p, err := r.ReadBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8}, p)
	p[0] = 0
	assert.Equal(t, byte(9), w.Bytes()[6], "ReadBytes returns a copy")
}

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	require.NoError(t, r.Seek(1))

	_, err := r.ReadUint32(LittleEndian)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, r.Pos(), "failed read leaves the cursor in place")

	_, err = r.ReadString(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = r.ReadString(math.MaxInt)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = r.ReadBytes(math.MaxInt - 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 1, r.Pos())

	v, err := r.ReadUint16(LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), v)
	assert.Zero(t, r.Remaining())

	_, err = r.ReadUint8()
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.ErrorIs(t, r.Seek(4), ErrOutOfRange)
	assert.ErrorIs(t, r.Seek(-1), ErrOutOfRange)
	require.NoError(t, r.Seek(3))
	require.NoError(t, r.Seek(0))
	assert.Equal(t, 3, r.Len())
}
