package protocol

import "fmt"

// Decode parses a complete ContourArray from data. The only bound on
// declared counts is the size of data itself.
func Decode(data []byte) (ContourArray, error) {
	return DecodeWithLimits(data, Limits{})
}

// DecodeWithLimits parses a complete ContourArray from data, rejecting
// counts beyond limits. Either the whole message is returned or an error;
// trailing bytes after the message are an error.
func DecodeWithLimits(data []byte, limits Limits) (ContourArray, error) {
	c := &cursor{buf: data}

	count, err := c.u32("contours.length")
	if err != nil {
		return ContourArray{}, err
	}
	if err := limits.checkContours(count); err != nil {
		return ContourArray{}, c.fail("contours.length", err)
	}
	if err := c.reserve("contours", count, minContourSize); err != nil {
		return ContourArray{}, err
	}

	contours := make([]Contour, 0, count)
	for i := uint32(0); i < count; i++ {
		contour, err := decodeContour(c, int(i), limits)
		if err != nil {
			return ContourArray{}, err
		}
		contours = append(contours, contour)
	}

	if c.remaining() != 0 {
		return ContourArray{}, c.fail("message", fmt.Errorf("%w: %d bytes", ErrTrailingBytes, c.remaining()))
	}
	return ContourArray{Contours: contours}, nil
}

func decodeContour(c *cursor, index int, limits Limits) (Contour, error) {
	prefix := fmt.Sprintf("contours[%d]", index)

	nameLen, err := c.u32(prefix + ".name.length")
	if err != nil {
		return Contour{}, err
	}
	if err := limits.checkName(nameLen); err != nil {
		return Contour{}, c.fail(prefix+".name.length", err)
	}
	name, err := c.bytes(prefix+".name", nameLen)
	if err != nil {
		return Contour{}, err
	}

	pointCount, err := c.u32(prefix + ".points.length")
	if err != nil {
		return Contour{}, err
	}
	if err := limits.checkPoints(pointCount); err != nil {
		return Contour{}, c.fail(prefix+".points.length", err)
	}
	if err := c.reserve(prefix+".points", pointCount, pointSize); err != nil {
		return Contour{}, err
	}

	points := make([]Point2D, pointCount)
	for j := range points {
		points[j] = c.point()
	}
	return Contour{Name: string(name), Points: points}, nil
}
