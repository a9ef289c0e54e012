package graphics

import "math"

const epsilon = 0.0001

// Rect is an axis-aligned rectangle in view or element coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Contains reports whether the point lies inside the half-open rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// FloatEqual reports whether a and b differ by at most epsilon.
func FloatEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

// DegreesToRadians converts degrees to radians.
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ParentToChild converts a point in the parent's space into the space of a
// child placed at (x, y) with its pin point at (pinX, pinY) and rotated by
// rotation degrees around that pin.
func ParentToChild(px, py, x, y, pinX, pinY, rotation float64) (float64, float64) {
	a := px - x
	b := py - y
	if rotation == 0 {
		return a + pinX, b + pinY
	}
	rad := DegreesToRadians(rotation)
	sin, cos := math.Sincos(rad)
	return a*cos + b*sin + pinX, b*cos - a*sin + pinY
}

// ChildToParent is the inverse of ParentToChild.
func ChildToParent(cx, cy, x, y, pinX, pinY, rotation float64) (float64, float64) {
	a := cx - pinX
	b := cy - pinY
	if rotation == 0 {
		return a + x, b + y
	}
	rad := DegreesToRadians(rotation)
	sin, cos := math.Sincos(rad)
	return a*cos - b*sin + x, a*sin + b*cos + y
}

// BoundingRect returns the parent-space bounding box of a child with the
// given geometry.
func BoundingRect(x, y, width, height, pinX, pinY, rotation float64) Rect {
	corners := [4][2]float64{{0, 0}, {width, 0}, {0, height}, {width, height}}
	r := Rect{Left: math.Inf(1), Top: math.Inf(1), Right: math.Inf(-1), Bottom: math.Inf(-1)}
	for _, c := range corners {
		px, py := ChildToParent(c[0], c[1], x, y, pinX, pinY, rotation)
		r.Left = math.Min(r.Left, px)
		r.Top = math.Min(r.Top, py)
		r.Right = math.Max(r.Right, px)
		r.Bottom = math.Max(r.Bottom, py)
	}
	return r
}
