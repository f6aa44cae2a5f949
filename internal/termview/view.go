// Package termview hosts a windowed list in a terminal. Entries are rendered
// with lipgloss, measured in cells, and composed into a frame the size of
// the viewport.
package termview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/ordered"

	virtual "github.com/grindlemire/go-virtual"
)

// Entry is one piece of text shown in the view.
type Entry struct {
	Key  string
	Kind string
	Text string
}

// KindStyle is how entries of one kind are drawn. The style's margins are
// reported to the engine and left out of the rendered text.
type KindStyle struct {
	Inline bool
	Style  lipgloss.Style
}

// View is a terminal scroll container. All sizes are in cells.
type View struct {
	width, height int
	padding       virtual.Edges
	scrollTop     int
	extent        int

	styles   map[string]KindStyle
	entries  map[string]Entry
	lookup   func(key string) (Entry, bool)
	elements []*element

	focused  string
	hasFocus bool
	onScroll func()
	onMount  func(el virtual.Element)
}

var _ virtual.Container = (*View)(nil)

// New creates a view of the given size.
func New(width, height int) *View {
	return &View{
		width:   width,
		height:  height,
		styles:  make(map[string]KindStyle),
		entries: make(map[string]Entry),
	}
}

// SetKindStyle configures how entries of kind are drawn.
func (v *View) SetKindStyle(kind string, ks KindStyle) {
	v.styles[kind] = ks
}

// SetEntries replaces the text of every entry. Elements already rendered
// pick up the new text on their next measurement.
func (v *View) SetEntries(entries []Entry) {
	v.entries = make(map[string]Entry, len(entries))
	for _, e := range entries {
		v.entries[e.Key] = e
	}
	for _, el := range v.elements {
		el.cache = ""
	}
}

// SetLookup makes elements read their entry through fn instead of the
// entries given to SetEntries. Pass Engine.Item so a key whose entry was
// just removed keeps rendering its last text.
func (v *View) SetLookup(fn func(key string) (Entry, bool)) {
	v.lookup = fn
}

func (v *View) entry(key string) Entry {
	if v.lookup != nil {
		e, _ := v.lookup(key)
		return e
	}
	return v.entries[key]
}

// SetPadding sets the padding around the content.
func (v *View) SetPadding(p virtual.Edges) {
	v.padding = p
}

// Resize changes the viewport size.
func (v *View) Resize(width, height int) {
	v.width, v.height = width, height
	for _, el := range v.elements {
		el.cache = ""
	}
	v.clamp()
}

// OnScroll registers a callback fired when the scroll offset changes.
func (v *View) OnScroll(fn func()) {
	v.onScroll = fn
}

// OnMount registers a callback fired for every element Render creates, once
// the element list is replaced. Forward it to Engine.ElementResized so new
// entries are measured and the window is laid out again.
func (v *View) OnMount(fn func(el virtual.Element)) {
	v.onMount = fn
}

// Focus marks the entry rendered for key as focused.
func (v *View) Focus(key string) {
	v.focused, v.hasFocus = key, true
}

// Render materializes one element per key, keeping elements of keys that
// were already rendered. It is meant to be the SetRenderedKeys callback.
func (v *View) Render(keys []string) {
	existing := make(map[string]*element, len(v.elements))
	for _, el := range v.elements {
		existing[el.key] = el
	}
	next := make([]*element, 0, len(keys))
	var mounted []*element
	for _, key := range keys {
		if el, ok := existing[key]; ok {
			next = append(next, el)
			continue
		}
		el := &element{view: v, key: key, kind: v.entry(key).Kind}
		next = append(next, el)
		mounted = append(mounted, el)
	}
	v.elements = next
	if v.onMount != nil {
		for _, el := range mounted {
			v.onMount(el)
		}
	}
}

// ScrollBy moves the scroll offset by delta rows.
func (v *View) ScrollBy(delta int) {
	v.SetScrollTop(v.scrollTop + delta)
}

// ScrollTop returns the current scroll offset.
func (v *View) ScrollTop() int { return v.scrollTop }

// SetScrollTop moves the scroll offset, clamped to the scrollable range.
func (v *View) SetScrollTop(y int) {
	prev := v.scrollTop
	v.scrollTop = y
	v.clamp()
	if v.scrollTop != prev && v.onScroll != nil {
		v.onScroll()
	}
}

// SmoothScrollTo jumps to y; terminals do not animate.
func (v *View) SmoothScrollTo(y int) { v.SetScrollTop(y) }

// ViewportSize returns the viewport size.
func (v *View) ViewportSize() virtual.Size {
	return virtual.Size{Width: v.width, Height: v.height}
}

// Padding returns the content padding.
func (v *View) Padding() virtual.Edges { return v.padding }

// ScrollHeight returns the content height, at least the viewport height.
func (v *View) ScrollHeight() int {
	return max(v.extent+v.padding.Vertical(), v.height)
}

// SetExtent sets the content height.
func (v *View) SetExtent(h int) { v.extent = h }

// Elements returns the rendered elements.
func (v *View) Elements() []virtual.Element {
	out := make([]virtual.Element, len(v.elements))
	for i, el := range v.elements {
		out[i] = el
	}
	return out
}

// FocusedKey returns the focused entry key.
func (v *View) FocusedKey() (string, bool) { return v.focused, v.hasFocus }

func (v *View) clamp() {
	v.scrollTop = ordered.Clamp(v.scrollTop, 0, max(v.ScrollHeight()-v.height, 0))
}

// Frame composes the visible rows. Lines are exactly the viewport width;
// content crossing the right edge is cut.
func (v *View) Frame() string {
	lines := make([]string, v.height)
	blank := strings.Repeat(" ", v.width)
	for i := range lines {
		lines[i] = blank
	}

	for _, el := range v.elements {
		if el.hidden {
			continue
		}
		x := el.x + v.padding.Left
		top := el.y + v.padding.Top - v.scrollTop
		for i, text := range strings.Split(el.render(), "\n") {
			row := top + i
			if row < 0 || row >= v.height || x >= v.width {
				continue
			}
			lines[row] = overlay(lines[row], text, x, v.width)
		}
	}
	return strings.Join(lines, "\n")
}

// overlay writes text over line starting at column x.
func overlay(line, text string, x, width int) string {
	avail := width - x
	if n := ansi.StringWidth(text); n > avail {
		text = ansi.Truncate(text, avail, "")
	}
	w := ansi.StringWidth(text)
	return ansi.Cut(line, 0, x) + text + ansi.Cut(line, x+w, width)
}

// element is one rendered entry.
type element struct {
	view *View
	key  string
	kind string

	x, y   int
	hidden bool

	cache string
}

var _ virtual.Element = (*element)(nil)

func (el *element) DataKey() (string, bool) { return el.key, true }

func (el *element) DataKind() string { return el.kind }

// Measure renders the entry and reports its size in cells. Block entries
// are wrapped to the content width less their margin.
func (el *element) Measure() virtual.Size {
	if el.hidden {
		return virtual.Size{}
	}
	el.cache = ""
	out := el.render()
	return virtual.Size{Width: lipgloss.Width(out), Height: lipgloss.Height(out)}
}

func (el *element) Style() (bool, virtual.Edges) {
	ks := el.view.styles[el.kind]
	top, right, bottom, left := ks.Style.GetMargin()
	return ks.Inline, virtual.EdgeTRBL(top, right, bottom, left)
}

func (el *element) SetPosition(x, y int) { el.x, el.y = x, y }

// SetWidth is a no-op: block entries already wrap at the content width.
func (el *element) SetWidth(int) {}

func (el *element) SetSize(int, int) {}

func (el *element) SetHidden(hidden bool) { el.hidden = hidden }

func (el *element) String() string {
	return fmt.Sprintf("element(%s/%s)", el.kind, el.key)
}

// blockWidth is the width a block entry wraps at: the content width less
// its margin and border.
func (el *element) blockWidth() int {
	v := el.view
	ks := v.styles[el.kind]
	_, margin := el.Style()
	return max(v.width-v.padding.Horizontal()-margin.Horizontal()-ks.Style.GetHorizontalBorderSize(), 1)
}

func (el *element) render() string {
	if el.cache != "" {
		return el.cache
	}
	ks := el.view.styles[el.kind]
	style := ks.Style.UnsetMargins()
	if !ks.Inline {
		style = style.Width(el.blockWidth())
	}
	el.cache = style.Render(el.view.entry(el.key).Text)
	return el.cache
}
