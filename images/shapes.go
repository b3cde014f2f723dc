// Package images - Rectangle helpers for comparing detected boxes.
package images

import "image"

// Rect is a lightweight bounding box.
type Rect struct {
	// X2,Y2 are exclusive (like image.Rectangle).
	X1, Y1, X2, Y2 int
}

// RectFromInclusive builds a Rect from inclusive left/top/right/bottom coordinates,
// the convention used by labelled regions.
func RectFromInclusive(left, top, right, bottom int) Rect {
	return Rect{X1: left, Y1: top, X2: right + 1, Y2: bottom + 1}
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	w, h := r.X2-r.X1, r.Y2-r.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// ToImageRect converts the box to an image.Rectangle.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// IoU returns the intersection over union of r and o, in [0, 1].
//
// Arguments:
//   - o: The other rectangle.
//
// Returns:
//   - float32: 1.0 for identical boxes, 0.0 for disjoint or touching boxes.
//
// @example
// a := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
// b := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
// a.IoU(b) // 25 / 175 = 0.142857
func (r Rect) IoU(o Rect) float32 {
	return CalculateIoU(r, o)
}

// CalculateIoU computes the intersection over union of two rectangles.
func CalculateIoU(r, o Rect) float32 {
	inter := Rect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}.Area()
	if inter == 0 {
		return 0.0
	}
	union := r.Area() + o.Area() - inter
	return float32(inter) / float32(union)
}
