package virtual

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testItem is the item type driven through the engine in tests.
type testItem struct {
	id   string
	kind string
	rect *Rect
}

func items(kind string, n int) []testItem {
	out := make([]testItem, n)
	for i := range out {
		out[i] = testItem{id: fmt.Sprintf("%s%d", kind, i), kind: kind}
	}
	return out
}

// harness wires a Registry to a MockContainer the way a host would: the
// render callback re-renders synchronously and scroll events are delivered
// back to the engine.
type harness struct {
	t      *testing.T
	reg    *Registry[testItem]
	c      *MockContainer
	items  []testItem
	manual bool
}

func newHarness(t *testing.T, width, height int, its []testItem, opts ...Option) *harness {
	t.Helper()
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	h := &harness{
		t:     t,
		reg:   NewRegistry[testItem](opts...),
		c:     NewMockContainer(width, height),
		items: its,
	}
	h.c.OnScroll(func() {
		if e, ok := h.reg.Engine(h.c); ok {
			require.NoError(t, e.Scrolled())
		}
	})
	return h
}

// observeMounts delivers a resize notification for every new element, the
// way a host observing element sizes does when it starts observing.
func (h *harness) observeMounts() {
	h.c.OnMount(func(el *MockElement) {
		if e, ok := h.reg.Engine(h.c); ok {
			require.NoError(h.t, e.ElementResized(el))
		}
	})
}

func (h *harness) kindOf(key string) string {
	for _, it := range h.items {
		if it.id == key {
			return it.kind
		}
	}
	return ""
}

func (h *harness) source() Source[testItem] {
	src := Source[testItem]{
		Items:    h.items,
		Identity: func(it testItem) string { return it.id },
		Kind:     func(it testItem) string { return it.kind },
		SetRenderedKeys: func(keys []string) {
			h.c.Render(keys, h.kindOf)
		},
	}
	if h.manual {
		src.Rect = func(it testItem) (Rect, bool) {
			if it.rect == nil {
				return Rect{}, false
			}
			return *it.rect, true
		}
	}
	return src
}

func (h *harness) update() []string {
	h.t.Helper()
	keys, err := h.reg.Update(h.c, h.source())
	require.NoError(h.t, err)
	return keys
}

func (h *harness) engine() *Engine[testItem] {
	h.t.Helper()
	e, ok := h.reg.Engine(h.c)
	require.True(h.t, ok, "engine not attached")
	return e
}

func (h *harness) pos(key string) Point {
	h.t.Helper()
	p, ok := h.engine().Properties(key)
	require.True(h.t, ok, "no properties for %q", key)
	return Point{X: p.X, Y: p.Y}
}

// shown returns the keys of displayed elements in render order.
func (h *harness) shown() []string {
	var keys []string
	for _, el := range h.c.MockElements() {
		if !el.Hidden() {
			keys = append(keys, el.Key())
		}
	}
	return keys
}

// rowHeights measures every element as a fixed-height block.
func rowHeights(height int) MeasureFunc {
	return func(string, string) Size { return Size{Height: height} }
}
