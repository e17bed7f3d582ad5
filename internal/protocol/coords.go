package protocol

import "fmt"

// Coords returns the contour points as interleaved x,y values.
func (c Contour) Coords() []float32 {
	out := make([]float32, 0, 2*len(c.Points))
	for _, p := range c.Points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// ContourFromCoords builds a contour from interleaved x,y values.
func ContourFromCoords(name string, coords []float32) (Contour, error) {
	if len(coords)%2 != 0 {
		return Contour{}, &EncodingError{
			Field:   "points",
			Contour: -1,
			Err:     fmt.Errorf("%w: %d values", ErrOddCoords, len(coords)),
		}
	}
	points := make([]Point2D, len(coords)/2)
	for i := range points {
		points[i] = Point2D{X: coords[2*i], Y: coords[2*i+1]}
	}
	return Contour{Name: name, Points: points}, nil
}
