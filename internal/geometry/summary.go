// Package geometry derives shape summaries from decoded contours.
package geometry

import (
	"math"

	"github.com/danmuck/contourwire/internal/protocol"
	"gonum.org/v1/gonum/spatial/r2"
)

// Summary describes one contour. Area is the signed shoelace area of the
// polygon closed from the last point back to the first; it is positive for
// counter-clockwise winding.
type Summary struct {
	Name      string
	Points    int
	Bounds    r2.Box
	Perimeter float64
	Closed    bool
	Area      float64
}

func Summarize(c protocol.Contour) Summary {
	s := Summary{Name: c.Name, Points: len(c.Points)}
	if len(c.Points) == 0 {
		return s
	}

	vecs := make([]r2.Vec, len(c.Points))
	for i, p := range c.Points {
		vecs[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}

	s.Bounds = bounds(vecs)
	for i := 1; i < len(vecs); i++ {
		s.Perimeter += r2.Norm(r2.Sub(vecs[i], vecs[i-1]))
	}
	s.Closed = len(vecs) > 2 && vecs[0] == vecs[len(vecs)-1]
	if len(vecs) > 2 {
		var twice float64
		for i := range vecs {
			twice += r2.Cross(vecs[i], vecs[(i+1)%len(vecs)])
		}
		s.Area = twice / 2
	}
	return s
}

func SummarizeAll(msg protocol.ContourArray) []Summary {
	out := make([]Summary, 0, len(msg.Contours))
	for _, c := range msg.Contours {
		out = append(out, Summarize(c))
	}
	return out
}

// Extent is the bounding box of every point in msg. ok is false when msg
// has no points.
func Extent(msg protocol.ContourArray) (box r2.Box, ok bool) {
	for _, c := range msg.Contours {
		if len(c.Points) == 0 {
			continue
		}
		b := Summarize(c).Bounds
		if !ok {
			box, ok = b, true
			continue
		}
		box = union(box, b)
	}
	return box, ok
}

func bounds(vecs []r2.Vec) r2.Box {
	lo := r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range vecs {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	return r2.Box{Min: lo, Max: hi}
}

func union(a, b r2.Box) r2.Box {
	return r2.Box{
		Min: r2.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: r2.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}
