package virtual

import "github.com/charmbracelet/x/exp/ordered"

type keySet map[string]struct{}

func (s keySet) add(key string) { s[key] = struct{}{} }

func (s keySet) has(key string) bool {
	_, ok := s[key]
	return ok
}

// window is the vertical span, in content coordinates, whose items are
// materialized.
type window struct {
	top, bottom int
}

// computeWindow expands the viewport by the prerender margins. The larger
// margin goes in the direction of travel; with no known direction the small
// margin applies on both sides.
func computeWindow(offset, viewport, direction, ahead, behind int) window {
	switch {
	case direction > 0:
		return window{top: offset - behind, bottom: offset + viewport + ahead}
	case direction < 0:
		return window{top: offset - ahead, bottom: offset + viewport + behind}
	default:
		return window{top: offset - behind, bottom: offset + viewport + behind}
	}
}

// visibility is the outcome of one visibility calculation.
type visibility struct {
	// desired holds the keys that should have a displayed element.
	desired keySet
	// existing holds every key present in the data, so retained elements
	// that merely left the window can be told apart from deleted ones.
	existing keySet
}

// manualRect is the caller-supplied rectangle of one item in manual layout.
type manualRect struct {
	rect Rect
	ok   bool
}

// scrollOffset returns the container's scroll offset clamped to the
// scrollable range.
func (e *Engine[T]) scrollOffset() int {
	vp := e.container.ViewportSize()
	limit := max(e.container.ScrollHeight()-vp.Height, 0)
	return ordered.Clamp(e.container.ScrollTop(), 0, limit)
}

// knownRect returns the rectangle of item i when one is known: the manual
// rectangle, or the cached properties once they carry a height. Sizes zeroed
// by a container resize fall back to the kind estimate until remeasured.
func (e *Engine[T]) knownRect(i int, rects []manualRect) (Rect, bool) {
	if rects != nil {
		return rects[i].rect, rects[i].ok
	}
	p, ok := e.props.lookup(e.keys[i])
	if !ok {
		return Rect{}, false
	}
	if !p.Measured && p.Height == 0 {
		p.Height = e.estimator.Estimate(e.kinds[i]).Height
	}
	if p.Height == 0 {
		return Rect{}, false
	}
	return p.Rect(), true
}

// visible computes which items need a displayed element.
func (e *Engine[T]) visible(rects []manualRect) visibility {
	vis := visibility{
		desired:  make(keySet),
		existing: make(keySet, len(e.keys)),
	}

	vp := e.container.ViewportSize()
	w := computeWindow(e.scrollOffset(), vp.Height, e.direction, e.settings.ahead, e.settings.behind)

	// One representative per kind that has no size yet, in data order.
	var presize []string
	seenKinds := make(map[string]bool)

	for i, key := range e.keys {
		vis.existing.add(key)

		if r, ok := e.knownRect(i, rects); ok {
			if r.OverlapsSpan(w.top, w.bottom) {
				vis.desired.add(key)
			}
			continue
		}
		if rects != nil {
			// Manual layout never presizes.
			continue
		}
		if kind := e.kinds[i]; !seenKinds[kind] {
			seenKinds[kind] = true
			presize = append(presize, key)
		}
	}

	if len(vis.desired) == 0 {
		for _, key := range e.keys[:min(e.settings.initialCount, len(e.keys))] {
			vis.desired.add(key)
		}
	}

	if key, ok := e.container.FocusedKey(); ok && vis.existing.has(key) {
		vis.desired.add(key)
	}

	for _, key := range presize {
		vis.desired.add(key)
	}
	return vis
}
