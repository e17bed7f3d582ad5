package protocol

import (
	"io"
	"math"
)

// EncodedLen returns the exact wire size of msg. It fails when any length
// prefix would not fit in a u32.
func EncodedLen(msg ContourArray) (int, error) {
	if !fitsU32(len(msg.Contours)) {
		return 0, &EncodingError{Field: "contours", Contour: -1, Err: ErrLengthOverflow}
	}
	total := uint64(lengthSize)
	for i, c := range msg.Contours {
		if !fitsU32(len(c.Name)) {
			return 0, &EncodingError{Field: "name", Contour: i, Err: ErrLengthOverflow}
		}
		if !fitsU32(len(c.Points)) {
			return 0, &EncodingError{Field: "points", Contour: i, Err: ErrLengthOverflow}
		}
		total += minContourSize + uint64(len(c.Name)) + uint64(len(c.Points))*pointSize
	}
	if total > math.MaxInt {
		return 0, &EncodingError{Field: "message", Contour: -1, Err: ErrLengthOverflow}
	}
	return int(total), nil
}

// Marshal returns msg in the wire format.
func Marshal(msg ContourArray) ([]byte, error) {
	n, err := EncodedLen(msg)
	if err != nil {
		return nil, err
	}
	return appendContourArray(make([]byte, 0, n), msg), nil
}

// Append appends the wire form of msg to dst. Nothing is appended on error.
func Append(dst []byte, msg ContourArray) ([]byte, error) {
	if _, err := EncodedLen(msg); err != nil {
		return dst, err
	}
	return appendContourArray(dst, msg), nil
}

// Encode writes msg to w using the wire format. Lengths are checked before
// the first byte is written, so w never sees a truncated message because of
// an unrepresentable value.
func Encode(w io.Writer, msg ContourArray) error {
	buf, err := Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return &EncodingError{Field: "write", Contour: -1, Err: err}
	}
	return nil
}

// appendContourArray assumes every length was validated by EncodedLen.
func appendContourArray(dst []byte, msg ContourArray) []byte {
	dst = appendU32(dst, uint32(len(msg.Contours)))
	for _, c := range msg.Contours {
		dst = appendU32(dst, uint32(len(c.Name)))
		dst = append(dst, c.Name...)
		dst = appendU32(dst, uint32(len(c.Points)))
		for _, p := range c.Points {
			dst = appendF32(dst, p.X)
			dst = appendF32(dst, p.Y)
		}
	}
	return dst
}
