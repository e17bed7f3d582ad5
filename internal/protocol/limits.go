package protocol

import "fmt"

// Limits constrains decode memory use. A zero field means no limit beyond
// what the buffer itself can hold.
type Limits struct {
	MaxContours  uint32
	MaxPoints    uint32
	MaxNameBytes uint32
}

// DefaultLimits is sized for camera-derived contour sets.
func DefaultLimits() Limits {
	return Limits{
		MaxContours:  4096,
		MaxPoints:    1 << 20,
		MaxNameBytes: 4096,
	}
}

func (l Limits) checkContours(n uint32) error {
	return checkLimit("contour count", n, l.MaxContours)
}

func (l Limits) checkPoints(n uint32) error {
	return checkLimit("point count", n, l.MaxPoints)
}

func (l Limits) checkName(n uint32) error {
	return checkLimit("name length", n, l.MaxNameBytes)
}

func checkLimit(what string, n, limit uint32) error {
	if limit != 0 && n > limit {
		return fmt.Errorf("%w: %s %d > %d", ErrLimitExceeded, what, n, limit)
	}
	return nil
}

// Check reports the first element of msg that is outside l.
func (l Limits) Check(msg ContourArray) error {
	if !fitsU32(len(msg.Contours)) {
		return fmt.Errorf("%w: contour count", ErrLengthOverflow)
	}
	if err := l.checkContours(uint32(len(msg.Contours))); err != nil {
		return err
	}
	for i, c := range msg.Contours {
		if !fitsU32(len(c.Name)) || !fitsU32(len(c.Points)) {
			return fmt.Errorf("contours[%d]: %w", i, ErrLengthOverflow)
		}
		if err := l.checkName(uint32(len(c.Name))); err != nil {
			return fmt.Errorf("contours[%d]: %w", i, err)
		}
		if err := l.checkPoints(uint32(len(c.Points))); err != nil {
			return fmt.Errorf("contours[%d]: %w", i, err)
		}
	}
	return nil
}
