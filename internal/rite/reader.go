package rite

import "encoding/binary"

// Reader is a forward-only big-endian cursor over an immutable image.
// Reads never return partial data: a read that does not fit fails with an
// *UnderrunError and leaves the position unchanged.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the first byte of b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Pos returns the current offset.
func (r *Reader) Pos() int { return r.off }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Size returns the length of the underlying image.
func (r *Reader) Size() int { return len(r.buf) }

func (r *Reader) need(n int) error {
	if n < 0 || r.off+n > len(r.buf) {
		return &UnderrunError{
			Offset:    r.off,
			Requested: n,
			Available: len(r.buf) - r.off,
			Size:      len(r.buf),
		}
	}
	return nil
}

// U8 reads one byte.
func (r *Reader) U8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// U16 reads a big-endian 16 bit value.
func (r *Reader) U16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// U32 reads a big-endian 32 bit value.
func (r *Reader) U32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Bytes returns the next n bytes. The slice aliases the image and must not
// be modified. Bytes(0) returns an empty slice without advancing.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// String reads n bytes as a string.
func (r *Reader) String(n int) (string, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Skip advances past n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}
