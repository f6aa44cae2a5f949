package layout

// Edges holds a spacing per side of a box: item margins and container
// padding.
type Edges struct {
	Top, Right, Bottom, Left int
}

// EdgeAll spaces every side by n.
func EdgeAll(n int) Edges {
	return Edges{Top: n, Right: n, Bottom: n, Left: n}
}

// EdgeSymmetric spaces top and bottom by v, left and right by h.
func EdgeSymmetric(v, h int) Edges {
	return Edges{Top: v, Right: h, Bottom: v, Left: h}
}

// EdgeTRBL lists the sides clockwise from the top.
func EdgeTRBL(t, r, b, l int) Edges {
	return Edges{Top: t, Right: r, Bottom: b, Left: l}
}

// Horizontal is the spacing a box loses in width.
func (e Edges) Horizontal() int {
	return e.Left + e.Right
}

// Vertical is the spacing a box loses in height.
func (e Edges) Vertical() int {
	return e.Top + e.Bottom
}

// Size is a width/height pair.
type Size struct {
	Width, Height int
}

// Grow returns the outer size of a box of size s spaced by e.
func (s Size) Grow(e Edges) Size {
	return Size{Width: s.Width + e.Horizontal(), Height: s.Height + e.Vertical()}
}
