package virtual

import (
	"math"

	"github.com/charmbracelet/x/exp/ordered"
	"go.uber.org/zap"
)

// ScrollAnchor pins a point of an item to a point of the viewport.
// ItemPin and WindowPin are fractions in [0, 1]: 0 is the top edge, 1 the
// bottom edge.
type ScrollAnchor struct {
	Key       string
	ItemPin   float64
	WindowPin float64
}

// ScrollOption configures ScrollToItem.
type ScrollOption func(*scrollConfig)

type scrollConfig struct {
	position float64
}

// WithPosition aligns the given fraction of the item with the same fraction
// of the viewport. 0 (the default) aligns top edges, 1 aligns bottom edges
// and 0.5 centers the item.
func WithPosition(p float64) ScrollOption {
	return func(c *scrollConfig) {
		c.position = ordered.Clamp(p, 0, 1)
	}
}

// correctAnchor moves the scroll offset so the anchored item sits at its
// pinned position. Flow layout may still be estimating the items in front of
// the anchor, so the anchor stays armed until a pass needs no correction.
func (e *Engine[T]) correctAnchor() {
	a := e.anchor
	if a == nil {
		return
	}
	if _, exists := e.indexOf[a.Key]; !exists {
		e.log.Debug("dropping scroll anchor for removed item", zap.String("key", a.Key))
		e.anchor = nil
		return
	}
	p, ok := e.props.lookup(a.Key)
	if !ok {
		return
	}

	offset := e.container.ScrollTop()
	viewport := e.container.ViewportSize().Height
	target := offset - pin(p.Height, a.ItemPin) + pin(viewport, a.WindowPin)
	correction := target - p.Y
	if correction == 0 {
		e.anchor = nil
		return
	}

	e.container.SetScrollTop(offset - correction)
	if e.container.ScrollTop() == offset {
		// The host clamped the offset; no later pass can do better.
		e.log.Debug("scroll anchor cannot converge", zap.String("key", a.Key), zap.Int("correction", correction))
		e.anchor = nil
	}
}

func pin(length int, fraction float64) int {
	return int(math.Round(float64(length) * fraction))
}
