// Package protocol owns the ContourArray wire contract and its codec.
//
// Ownership boundary:
// - message value types (Point2D, Contour, ContourArray)
// - encode/decode of the little-endian length-prefixed wire format
// - message metadata (type name, md5sum, definition text)
//
// Wire format, all integers unsigned 32-bit little-endian:
//
//	ContourArray := u32(count) Contour{count}
//	Contour      := u32(nameLen) byte{nameLen} u32(pointCount) Point2D{pointCount}
//	Point2D      := f32(x) f32(y)
package protocol
