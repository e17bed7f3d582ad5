package protocol

// Point2D is one vertex of a contour.
type Point2D struct {
	X float32
	Y float32
}

// Contour is a named polyline. Name holds raw bytes; no text encoding is
// enforced by the codec.
type Contour struct {
	Name   string
	Points []Point2D
}

// ContourArray is the top-level message.
type ContourArray struct {
	Contours []Contour
}

func NewPoint2D(x, y float32) Point2D {
	return Point2D{X: x, Y: y}
}

// NewContour copies points into a contour owned by the caller.
func NewContour(name string, points ...Point2D) Contour {
	owned := make([]Point2D, len(points))
	copy(owned, points)
	return Contour{Name: name, Points: owned}
}

// NewContourArray copies contours into a new message. Point slices are
// copied as well so the message exclusively owns its children.
func NewContourArray(contours ...Contour) ContourArray {
	owned := make([]Contour, 0, len(contours))
	for _, c := range contours {
		owned = append(owned, NewContour(c.Name, c.Points...))
	}
	return ContourArray{Contours: owned}
}

// Type returns the message metadata for ContourArray.
func (ContourArray) Type() MessageType {
	return MsgContourArray
}

// PointCount returns the total number of points across all contours.
func (m ContourArray) PointCount() int {
	total := 0
	for _, c := range m.Contours {
		total += len(c.Points)
	}
	return total
}
