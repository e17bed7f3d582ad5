package protocol

import (
	"encoding/binary"
	"math"
)

const (
	lengthSize = 4
	pointSize  = 8

	// minContourSize is an empty name plus an empty point list.
	minContourSize = 2 * lengthSize
)

func fitsU32(n int) bool {
	return uint64(n) <= math.MaxUint32
}

func appendU32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendF32(dst []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
}

// cursor reads forward through a buffer; it never moves back.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) fail(field string, err error) error {
	return &DecodingError{Field: field, Offset: c.off, Err: err}
}

func (c *cursor) u32(field string) (uint32, error) {
	if c.remaining() < lengthSize {
		return 0, c.fail(field, ErrTruncated)
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += lengthSize
	return v, nil
}

// point reads one Point2D. Callers must reserve the bytes first.
func (c *cursor) point() Point2D {
	b := c.buf[c.off : c.off+pointSize]
	c.off += pointSize
	return Point2D{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
	}
}

func (c *cursor) bytes(field string, n uint32) ([]byte, error) {
	if uint64(n) > uint64(c.remaining()) {
		return nil, c.fail(field, ErrTruncated)
	}
	end := c.off + int(n)
	b := c.buf[c.off:end]
	c.off = end
	return b, nil
}

// reserve checks that count elements of at least size bytes each could
// still fit in the buffer, so a corrupt count cannot force a large allocation.
func (c *cursor) reserve(field string, count uint32, size int) error {
	if uint64(count)*uint64(size) > uint64(c.remaining()) {
		return c.fail(field, ErrTruncated)
	}
	return nil
}
