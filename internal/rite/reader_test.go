package rite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderBigEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	v8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v8)

	v16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0203), v16)

	v32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x04050607), v32)

	assert.Equal(t, 7, r.Pos())
	assert.Equal(t, 0, r.Len())
}

func TestReaderBytesZero(t *testing.T) {
	r := NewReader([]byte{0xaa})
	b, err := r.Bytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Equal(t, 0, r.Pos())

	// Also at the very end of the buffer.
	require.NoError(t, r.Skip(1))
	b, err = r.Bytes(0)
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Equal(t, 1, r.Pos())
}

func TestReaderUnderrun(t *testing.T) {
	tests := []struct {
		name      string
		read      func(r *Reader) error
		requested int
	}{
		{"u16", func(r *Reader) error { _, err := r.U16(); return err }, 2},
		{"u32", func(r *Reader) error { _, err := r.U32(); return err }, 4},
		{"bytes", func(r *Reader) error { _, err := r.Bytes(10); return err }, 10},
		{"string", func(r *Reader) error { _, err := r.String(3); return err }, 3},
		{"skip", func(r *Reader) error { return r.Skip(5) }, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader([]byte{0x00, 0x01, 0x02})
			require.NoError(t, r.Skip(2))

			err := tt.read(r)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnderrun))

			var uerr *UnderrunError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, 2, uerr.Offset)
			assert.Equal(t, tt.requested, uerr.Requested)
			assert.Equal(t, 1, uerr.Available)
			assert.Equal(t, 3, uerr.Size)

			// A failed read never advances.
			assert.Equal(t, 2, r.Pos())
		})
	}
}

func TestReaderU8Underrun(t *testing.T) {
	r := NewReader(nil)
	_, err := r.U8()
	var uerr *UnderrunError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, UnderrunError{Offset: 0, Requested: 1, Available: 0, Size: 0}, *uerr)
	assert.Contains(t, err.Error(), "try to read 1 bytes from offset 0")
}
