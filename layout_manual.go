package virtual

import "fmt"

// manualRects collects the caller-supplied rectangle of every item. It
// returns nil when the source has no rectangle function.
func (e *Engine[T]) manualRects() ([]manualRect, error) {
	if e.src.Rect == nil {
		return nil, nil
	}
	rects := make([]manualRect, len(e.items))
	for i, item := range e.items {
		r, ok := e.src.Rect(item)
		if ok && !r.IsComplete() {
			return nil, fmt.Errorf("%w: item %q: %+v", ErrIncompleteRect, e.keys[i], r)
		}
		rects[i] = manualRect{rect: r, ok: ok}
	}
	return rects, nil
}

// layoutManual trusts the caller's rectangles. They are cached so scroll
// targeting and visibility read the same geometry as the elements.
func (e *Engine[T]) layoutManual(rects []manualRect, elements map[string]Element) {
	extent := 0
	for i, key := range e.keys {
		mr := rects[i]
		if !mr.ok {
			continue
		}
		at, size := mr.rect.Position(), mr.rect.Size()
		p := e.props.at(e.props.ensure(key, e.kinds[i], size))
		p.X, p.Y = at.X, at.Y
		p.Width, p.Height = size.Width, size.Height
		p.Measured = true

		if el, ok := elements[key]; ok {
			el.SetPosition(at.X, at.Y)
			el.SetSize(size.Width, size.Height)
		}
		extent = max(extent, mr.rect.Bottom())
	}
	e.extent = extent
}
