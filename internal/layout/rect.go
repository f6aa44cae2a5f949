package layout

// Point is a position in content coordinates.
type Point struct {
	X, Y int
}

// Rect is an item's box: X and Y locate the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a new Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Bottom returns the y-coordinate of the bottom edge (exclusive).
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Position returns the top-left corner.
func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the width/height pair of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

// IsComplete reports whether both dimensions are usable for layout.
// Negative dimensions mark a rectangle whose size was never filled in.
func (r Rect) IsComplete() bool {
	return r.Width >= 0 && r.Height >= 0
}

// OverlapsSpan reports whether the rectangle's vertical extent reaches into
// the span [top, bottom]. The bottom edge must be strictly below top while
// the top edge may sit exactly on bottom.
func (r Rect) OverlapsSpan(top, bottom int) bool {
	return r.Bottom() > top && r.Y <= bottom
}
