package virtual

// contentWidth returns the width items flow within.
func (e *Engine[T]) contentWidth() int {
	return max(e.container.ViewportSize().Width-e.container.Padding().Horizontal(), 0)
}

// layoutFlow positions every item, rendered or not, by flowing them in data
// order. Inline kinds share a line until the next one would overflow the
// content width; every other kind takes a line of its own and is stretched
// to the content width. Positions of items without an element are still
// recorded so the next visibility calculation sees stable rectangles.
func (e *Engine[T]) layoutFlow(elements map[string]Element) {
	contentWidth := e.contentWidth()

	var x, y, lineBottom int
	// closed is set after a block item so the next item starts a new line
	// whatever its width.
	closed := false
	for i, key := range e.keys {
		kind := e.kinds[i]
		kp, _ := e.estimator.Lookup(kind)
		p := e.props.at(e.props.ensure(key, kind, e.estimator.Estimate(kind)))

		if !kp.Inline {
			p.Width = max(contentWidth-kp.Margin.Horizontal(), 0)
		}
		outer := Size{Width: p.Width, Height: p.Height}.Grow(kp.Margin)

		if !kp.Inline || closed || x+outer.Width > contentWidth {
			x, y = 0, lineBottom
		}
		p.X = x + kp.Margin.Left
		p.Y = y + kp.Margin.Top

		x += outer.Width
		closed = !kp.Inline
		lineBottom = max(lineBottom, y+outer.Height)

		if el, ok := elements[key]; ok {
			el.SetPosition(p.X, p.Y)
			if !kp.Inline {
				el.SetWidth(p.Width)
			}
		}
	}
	e.extent = lineBottom
}
