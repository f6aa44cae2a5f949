package virtual

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUpdate_DuplicateKey(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 5))
	h.c.SetMeasure(rowHeights(50))
	before := h.update()

	h.items = []testItem{{id: "a", kind: "row"}, {id: "b", kind: "row"}, {id: "a", kind: "row"}}
	keys, err := h.reg.Update(h.c, h.source())
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), `"a" at index 0 and 2`)

	if diff := cmp.Diff(before, keys); diff != "" {
		t.Errorf("rendered keys changed on rejected update (-want +got):\n%s", diff)
	}
	item, ok := h.engine().Item("row3")
	require.True(t, ok)
	assert.Equal(t, "row3", item.id, "previous data stays in place")
}

func TestUpdate_DuplicateKeyOnFirstUpdate(t *testing.T) {
	reg := NewRegistry[testItem](WithLogger(zap.NewNop()))
	c := NewMockContainer(300, 400)
	src := Source[testItem]{
		Items:    []testItem{{id: "a"}, {id: "a"}},
		Identity: func(it testItem) string { return it.id },
		Kind:     func(it testItem) string { return it.kind },
	}

	keys, err := reg.Update(c, src)
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Empty(t, keys)
	_, attached := reg.Engine(c)
	assert.False(t, attached, "a rejected first update leaves nothing attached")
	assert.Equal(t, 0, reg.Len())
}

func TestUpdate_NoSource(t *testing.T) {
	type tc struct {
		src Source[testItem]
	}
	tests := map[string]tc{
		"missing identity": {src: Source[testItem]{Kind: func(testItem) string { return "" }}},
		"missing kind":     {src: Source[testItem]{Identity: func(testItem) string { return "" }}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry[testItem](WithLogger(zap.NewNop()))
			_, err := reg.Update(NewMockContainer(100, 100), tt.src)
			assert.ErrorIs(t, err, ErrNoSource)
			assert.Equal(t, 0, reg.Len())
		})
	}
}

func TestUpdate_MissingDataKey(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 5))
	h.c.SetMeasure(rowHeights(50))
	h.update()

	el, ok := h.c.Element("row1")
	require.True(t, ok)
	el.DropKey()

	err := h.engine().Scrolled()
	require.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "element 1")
	assert.Contains(t, err.Error(), `"row1"`)

	err = h.engine().ElementResized(el)
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestUpdate_HostRenderedKeysSeedReconciliation(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 10))
	h.c.SetMeasure(rowHeights(50))

	src := h.source()
	src.RenderedKeys = []string{"row3"}
	keys, err := h.reg.Update(h.c, src)
	require.NoError(t, err)

	require.NotEmpty(t, keys)
	assert.Equal(t, "row3", keys[0], "keys the host already renders keep their place")
	assert.Len(t, keys, 10)
}

func TestUpdate_ReentrantFromRenderCallback(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 10))
	h.c.SetMeasure(rowHeights(50))

	var nested int
	src := h.source()
	render := src.SetRenderedKeys
	src.SetRenderedKeys = func(keys []string) {
		render(keys)
		nested++
		e := h.engine()
		assert.True(t, e.InProgress())
		// A host re-rendering synchronously hands the data back.
		got, err := h.reg.Update(h.c, src)
		assert.NoError(t, err)
		assert.Equal(t, keys, got)
	}

	keys, err := h.reg.Update(h.c, src)
	require.NoError(t, err)
	assert.Equal(t, 1, nested, "the repeated pass renders nothing new")
	assert.Equal(t, keyRange("row", 0, 9), keys)
	assert.False(t, h.engine().InProgress())
}

func TestUpdate_MountNotificationsFillWindow(t *testing.T) {
	type tc struct {
		observe  bool
		expected []string
	}
	tests := map[string]tc{
		"host observes new elements": {
			observe:  true,
			expected: append([]string{"header"}, keyRange("tile", 0, 6)...),
		},
		"host never notifies": {
			observe:  false,
			expected: append([]string{"header"}, keyRange("tile", 0, 5)...),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := headerTiles(t, 300, 5)
			if tt.observe {
				h.observeMounts()
			}
			h.update()

			h.items = append(h.items, testItem{id: "tile5", kind: "tile"}, testItem{id: "tile6", kind: "tile"})
			h.update()

			assert.Equal(t, tt.expected, h.shown())
			assert.Equal(t, Point{X: 0, Y: 140}, h.pos("tile6"))
			assert.Equal(t, 190, h.engine().Extent())
		})
	}
}

func TestItem_MissingFallsBackToLastRendered(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	h := newHarness(t, 300, 400, items("row", 5), WithLogger(zap.New(core)))
	h.c.SetMeasure(rowHeights(50))
	h.update()

	h.items = append(append([]testItem{}, h.items[:2]...), h.items[3:]...)
	h.update()

	item, ok := h.engine().Item("row2")
	require.True(t, ok)
	assert.Equal(t, "row2", item.id)

	warnings := logs.FilterMessage("render key has no item, reusing last rendered value")
	require.Equal(t, 1, warnings.Len())
	assert.Equal(t, "row2", warnings.All()[0].ContextMap()["key"])

	_, ok = h.engine().Item("never")
	assert.False(t, ok)
	assert.Equal(t, 2, logs.Len())
}

func TestEngine_InvalidateKind(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 5))
	h.c.SetMeasure(rowHeights(50))
	h.update()
	require.Equal(t, Size{Width: 300, Height: 50}, h.engine().Estimate("row"))

	h.engine().InvalidateKind("row")

	assert.Equal(t, Size{}, h.engine().Estimate("row"))
	k, ok := h.engine().Kind("row")
	require.True(t, ok)
	assert.True(t, k.Valid)
	assert.Zero(t, k.Samples)

	// Measured items keep their own size.
	p, _ := h.engine().Properties("row4")
	assert.Equal(t, 50, p.Height)
}

func TestEngine_MaxHidden(t *testing.T) {
	h := newHarness(t, 300, 400, items("row", 100), WithMaxHidden(2))
	h.c.SetMeasure(rowHeights(50))
	h.update()

	h.c.SetScrollTop(3000)

	var hidden []string
	for _, el := range h.c.MockElements() {
		if el.Hidden() {
			hidden = append(hidden, el.Key())
		}
	}
	assert.Len(t, hidden, 2)
	assert.Equal(t, keyRange("row", 58, 78), h.shown())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry[testItem](WithLogger(zap.NewNop()))
	a, b := NewMockContainer(100, 100), NewMockContainer(100, 100)
	src := Source[testItem]{
		Items:    items("row", 3),
		Identity: func(it testItem) string { return it.id },
		Kind:     func(it testItem) string { return it.kind },
	}

	_, err := reg.Update(a, src)
	require.NoError(t, err)
	ea, ok := reg.Engine(a)
	require.True(t, ok)

	_, err = reg.Update(a, src)
	require.NoError(t, err)
	again, _ := reg.Engine(a)
	assert.Same(t, ea, again, "one engine per container")

	_, err = reg.Update(b, src)
	require.NoError(t, err)
	eb, _ := reg.Engine(b)
	assert.NotSame(t, ea, eb)
	assert.Equal(t, 2, reg.Len())
	assert.Same(t, Container(b), eb.Container())

	reg.Detach(a)
	_, ok = reg.Engine(a)
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_OptionsApplyPerEngine(t *testing.T) {
	reg := NewRegistry[testItem](WithLogger(zap.NewNop()), WithInitialCount(3))
	c := NewMockContainer(100, 100)
	keys, err := reg.Update(c, Source[testItem]{
		Items:    items("row", 10),
		Identity: func(it testItem) string { return it.id },
		Kind:     func(it testItem) string { return it.kind },
	})
	require.NoError(t, err)
	// Nothing is rendered by this host, so nothing is ever measured.
	assert.Equal(t, []string{"row0", "row1", "row2"}, keys)
}
