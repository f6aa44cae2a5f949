package virtual

import (
	"fmt"

	"github.com/charmbracelet/x/exp/ordered"
)

// MeasureFunc returns the natural size of the element rendered for key.
type MeasureFunc func(key, kind string) Size

type mockStyle struct {
	inline bool
	margin Edges
}

// MockContainer is an in-memory Container for tests and tooling.
// Elements are created by Render, sized by a MeasureFunc, and scrolling is
// clamped the way a real scroll container clamps it.
type MockContainer struct {
	width, height int
	padding       Edges
	scrollTop     int
	extent        int

	focused  string
	hasFocus bool

	elements []*MockElement
	measure  MeasureFunc
	natural  map[string]Size
	styles   map[string]mockStyle

	onScroll     func()
	onMount      func(el *MockElement)
	smoothTarget int
	smoothCalls  int
	renderCalls  int
}

// Ensure MockContainer implements Container.
var _ Container = (*MockContainer)(nil)

// NewMockContainer creates a mock container with the given viewport size.
// Every element measures as zero until SetMeasure or SetNaturalSize is used.
func NewMockContainer(width, height int) *MockContainer {
	return &MockContainer{
		width:   width,
		height:  height,
		measure: func(string, string) Size { return Size{} },
		natural: make(map[string]Size),
		styles:  make(map[string]mockStyle),
	}
}

// SetMeasure sets the function deciding each element's natural size.
func (m *MockContainer) SetMeasure(fn MeasureFunc) {
	m.measure = fn
}

// SetNaturalSize overrides the natural size of one key. It returns the
// element rendered for key, if any, so callers can deliver a resize
// notification for it.
func (m *MockContainer) SetNaturalSize(key string, s Size) (*MockElement, bool) {
	m.natural[key] = s
	return m.Element(key)
}

// SetKindStyle sets the computed style elements of a kind report.
func (m *MockContainer) SetKindStyle(kind string, inline bool, margin Edges) {
	m.styles[kind] = mockStyle{inline: inline, margin: margin}
}

// Resize changes the viewport size and re-clamps the scroll offset.
func (m *MockContainer) Resize(width, height int) {
	m.width, m.height = width, height
	m.clampScroll()
}

// SetPadding sets the container padding.
func (m *MockContainer) SetPadding(p Edges) {
	m.padding = p
}

// OnScroll registers a callback fired synchronously whenever the scroll
// offset actually changes.
func (m *MockContainer) OnScroll(fn func()) {
	m.onScroll = fn
}

// OnMount registers a callback fired for every element Render creates,
// after the element list is replaced. Hosts that observe element sizes get a
// first notification for each new element; forward it to
// Engine.ElementResized to do the same.
func (m *MockContainer) OnMount(fn func(el *MockElement)) {
	m.onMount = fn
}

// Focus gives input focus to the element rendered for key.
func (m *MockContainer) Focus(key string) {
	m.focused, m.hasFocus = key, true
}

// Blur clears input focus.
func (m *MockContainer) Blur() {
	m.focused, m.hasFocus = "", false
}

// Render replaces the element list with one element per key, reusing the
// elements of keys that were already rendered. kindOf supplies the kind of
// new elements.
func (m *MockContainer) Render(keys []string, kindOf func(key string) string) {
	m.renderCalls++
	existing := make(map[string]*MockElement, len(m.elements))
	for _, el := range m.elements {
		existing[el.key] = el
	}
	next := make([]*MockElement, 0, len(keys))
	var mounted []*MockElement
	for _, key := range keys {
		if el, ok := existing[key]; ok {
			next = append(next, el)
			continue
		}
		el := &MockElement{container: m, key: key, kind: kindOf(key), hasKey: true}
		next = append(next, el)
		mounted = append(mounted, el)
	}
	m.elements = next
	if m.onMount != nil {
		for _, el := range mounted {
			m.onMount(el)
		}
	}
}

// RenderCalls returns how many times Render was called.
func (m *MockContainer) RenderCalls() int {
	return m.renderCalls
}

// Element returns the element rendered for key.
func (m *MockContainer) Element(key string) (*MockElement, bool) {
	for _, el := range m.elements {
		if el.key == key {
			return el, true
		}
	}
	return nil, false
}

// MockElements returns the rendered elements in render order.
func (m *MockContainer) MockElements() []*MockElement {
	return m.elements
}

// LastSmoothScroll returns the target of the last SmoothScrollTo call.
func (m *MockContainer) LastSmoothScroll() (int, bool) {
	return m.smoothTarget, m.smoothCalls > 0
}

// Extent returns the placeholder height set by the engine.
func (m *MockContainer) Extent() int {
	return m.extent
}

// ScrollTop returns the current vertical scroll offset.
func (m *MockContainer) ScrollTop() int {
	return m.scrollTop
}

// SetScrollTop moves the scroll offset, clamped to the scrollable range.
func (m *MockContainer) SetScrollTop(y int) {
	prev := m.scrollTop
	m.scrollTop = y
	m.clampScroll()
	if m.scrollTop != prev && m.onScroll != nil {
		m.onScroll()
	}
}

// SmoothScrollTo records the target and jumps there; the mock does not animate.
func (m *MockContainer) SmoothScrollTo(y int) {
	m.smoothTarget = y
	m.smoothCalls++
	m.SetScrollTop(y)
}

// ViewportSize returns the viewport dimensions.
func (m *MockContainer) ViewportSize() Size {
	return Size{Width: m.width, Height: m.height}
}

// Padding returns the container padding.
func (m *MockContainer) Padding() Edges {
	return m.padding
}

// ScrollHeight returns the placeholder extent plus padding, at least the
// viewport height.
func (m *MockContainer) ScrollHeight() int {
	return max(m.extent+m.padding.Vertical(), m.height)
}

// SetExtent sets the trailing placeholder height.
func (m *MockContainer) SetExtent(height int) {
	m.extent = height
}

// Elements returns the rendered elements.
func (m *MockContainer) Elements() []Element {
	els := make([]Element, len(m.elements))
	for i, el := range m.elements {
		els[i] = el
	}
	return els
}

// FocusedKey returns the key of the focused element.
func (m *MockContainer) FocusedKey() (string, bool) {
	return m.focused, m.hasFocus
}

func (m *MockContainer) clampScroll() {
	m.scrollTop = ordered.Clamp(m.scrollTop, 0, max(m.ScrollHeight()-m.height, 0))
}

// MockElement is an element rendered by MockContainer.
type MockElement struct {
	container *MockContainer
	key       string
	kind      string
	hasKey    bool

	x, y          int
	width, height int
	hidden        bool

	measureCalls int
}

// Ensure MockElement implements Element.
var _ Element = (*MockElement)(nil)

// DropKey simulates a host that lost the element's data key marker.
func (el *MockElement) DropKey() {
	el.hasKey = false
}

// Key returns the key the element was rendered for, even after DropKey.
func (el *MockElement) Key() string {
	return el.key
}

// DataKey returns the element's data key.
func (el *MockElement) DataKey() (string, bool) {
	if !el.hasKey {
		return "", false
	}
	return el.key, true
}

// DataKind returns the element's data kind.
func (el *MockElement) DataKind() string {
	return el.kind
}

// Measure returns the element's natural size. Hidden elements measure as
// zero; block elements span the container's content width minus margin.
func (el *MockElement) Measure() Size {
	el.measureCalls++
	if el.hidden {
		return Size{}
	}
	m := el.container
	size, ok := m.natural[el.key]
	if !ok {
		size = m.measure(el.key, el.kind)
	}
	if style := m.styles[el.kind]; !style.inline {
		size.Width = max(m.width-m.padding.Horizontal()-style.margin.Horizontal(), 0)
	}
	return size
}

// MeasureCalls returns how many times the element was measured.
func (el *MockElement) MeasureCalls() int {
	return el.measureCalls
}

// Style returns the computed style configured for the element's kind.
func (el *MockElement) Style() (bool, Edges) {
	s := el.container.styles[el.kind]
	return s.inline, s.margin
}

// SetPosition records the element's absolute position.
func (el *MockElement) SetPosition(x, y int) {
	el.x, el.y = x, y
}

// SetWidth records the element's assigned width.
func (el *MockElement) SetWidth(width int) {
	el.width = width
}

// SetSize records the element's assigned size.
func (el *MockElement) SetSize(width, height int) {
	el.width, el.height = width, height
}

// SetHidden toggles the not-displayed state.
func (el *MockElement) SetHidden(hidden bool) {
	el.hidden = hidden
}

// Hidden reports whether the element is not displayed.
func (el *MockElement) Hidden() bool {
	return el.hidden
}

// Position returns the element's assigned position.
func (el *MockElement) Position() Point {
	return Point{X: el.x, Y: el.y}
}

// AssignedWidth returns the width the engine assigned, zero if none.
func (el *MockElement) AssignedWidth() int {
	return el.width
}

// String identifies the element in diagnostics.
func (el *MockElement) String() string {
	return fmt.Sprintf("MockElement(%s/%s)", el.kind, el.key)
}
