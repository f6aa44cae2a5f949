package termview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	virtual "github.com/grindlemire/go-virtual"
)

type host struct {
	t   *testing.T
	v   *View
	reg *virtual.Registry[Entry]
	src virtual.Source[Entry]
}

func newHost(t *testing.T, width, height int, entries []Entry, styles map[string]KindStyle) *host {
	t.Helper()
	v := New(width, height)
	Apply(v, styles)
	h := &host{
		t:   t,
		v:   v,
		reg: virtual.NewRegistry[Entry](virtual.WithLogger(zap.NewNop())),
		src: virtual.Source[Entry]{
			Items:           entries,
			Identity:        func(e Entry) string { return e.Key },
			Kind:            func(e Entry) string { return e.Kind },
			SetRenderedKeys: v.Render,
		},
	}
	v.OnScroll(func() {
		require.NoError(t, h.engine().Scrolled())
	})
	v.OnMount(func(el virtual.Element) {
		require.NoError(t, h.engine().ElementResized(el))
	})
	v.SetLookup(func(key string) (Entry, bool) {
		return h.engine().Item(key)
	})
	_, err := h.reg.Update(v, h.src)
	require.NoError(t, err)
	return h
}

func (h *host) engine() *virtual.Engine[Entry] {
	e, ok := h.reg.Engine(h.v)
	require.True(h.t, ok)
	return e
}

// frame returns the visible lines without styling or trailing blanks.
func frame(v *View) []string {
	lines := strings.Split(ansi.Strip(v.Frame()), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

func paragraphs(texts ...string) []Entry {
	out := make([]Entry, len(texts))
	for i, text := range texts {
		out[i] = Entry{Key: texts[i], Kind: KindParagraph, Text: text}
	}
	return out
}

func TestView_FrameScrolls(t *testing.T) {
	plain := map[string]KindStyle{KindParagraph: {Style: lipgloss.NewStyle()}}
	h := newHost(t, 20, 3, paragraphs("one", "two", "three", "four"), plain)

	assert.Equal(t, []string{"one", "two", "three"}, frame(h.v))
	assert.Equal(t, 4, h.engine().Extent())

	h.v.ScrollBy(1)
	assert.Equal(t, 1, h.v.ScrollTop())
	assert.Equal(t, []string{"two", "three", "four"}, frame(h.v))

	h.v.ScrollBy(10)
	assert.Equal(t, 1, h.v.ScrollTop(), "clamped to the content")
}

func TestView_AppendedEntriesFillViewport(t *testing.T) {
	plain := map[string]KindStyle{KindParagraph: {Style: lipgloss.NewStyle()}}
	h := newHost(t, 20, 5, paragraphs("one", "two", "three"), plain)

	h.src.Items = paragraphs("one", "two", "three", "four", "five")
	_, err := h.reg.Update(h.v, h.src)
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, frame(h.v))
	assert.Equal(t, 5, h.engine().Extent())
}

func TestView_LookupServesRemovedEntry(t *testing.T) {
	plain := map[string]KindStyle{KindParagraph: {Style: lipgloss.NewStyle()}}
	h := newHost(t, 20, 3, paragraphs("one", "two", "three"), plain)

	h.src.Items = paragraphs("one", "three")
	_, err := h.reg.Update(h.v, h.src)
	require.NoError(t, err)

	assert.Equal(t, "two", h.v.entry("two").Text, "last rendered entry is reused")
	assert.Equal(t, []string{"one", "three", ""}, frame(h.v))
}

func TestView_BlockEntriesWrap(t *testing.T) {
	plain := map[string]KindStyle{KindParagraph: {Style: lipgloss.NewStyle()}}
	h := newHost(t, 10, 5, paragraphs("aaaa bbbb cccc", "dd"), plain)

	p, ok := h.engine().Properties("aaaa bbbb cccc")
	require.True(t, ok)
	assert.Equal(t, 2, p.Height)
	assert.Equal(t, 10, p.Width)

	p, _ = h.engine().Properties("dd")
	assert.Equal(t, 2, p.Y)
	assert.Equal(t, []string{"aaaa bbbb", "cccc", "dd", "", ""}, frame(h.v))
}

func TestView_InlineTagsWrap(t *testing.T) {
	styles := map[string]KindStyle{
		KindTag: {Inline: true, Style: lipgloss.NewStyle().Padding(0, 1)},
	}
	tags := []Entry{
		{Key: "t0", Kind: KindTag, Text: "go"},
		{Key: "t1", Kind: KindTag, Text: "rust"},
		{Key: "t2", Kind: KindTag, Text: "zig"},
	}
	h := newHost(t, 12, 2, tags, styles)

	type tc struct {
		key      string
		expected virtual.Point
	}
	tests := map[string]tc{
		"first":   {key: "t0", expected: virtual.Point{X: 0, Y: 0}},
		"second":  {key: "t1", expected: virtual.Point{X: 4, Y: 0}},
		"wrapped": {key: "t2", expected: virtual.Point{X: 0, Y: 1}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, ok := h.engine().Properties(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.expected, virtual.Point{X: p.X, Y: p.Y})
		})
	}
	assert.Equal(t, []string{" go  rust", " zig"}, frame(h.v))
}

func TestView_MarginsAndPadding(t *testing.T) {
	styles := map[string]KindStyle{
		KindHeading:   {Style: lipgloss.NewStyle().MarginBottom(1)},
		KindParagraph: {Style: lipgloss.NewStyle().MarginLeft(2)},
	}
	entries := []Entry{
		{Key: "h", Kind: KindHeading, Text: "Title"},
		{Key: "p", Kind: KindParagraph, Text: "body"},
	}
	v := New(12, 4)
	v.SetPadding(virtual.EdgeTRBL(0, 0, 0, 1))
	Apply(v, styles)
	v.SetEntries(entries)
	reg := virtual.NewRegistry[Entry](virtual.WithLogger(zap.NewNop()))
	_, err := reg.Update(v, virtual.Source[Entry]{
		Items:           entries,
		Identity:        func(e Entry) string { return e.Key },
		Kind:            func(e Entry) string { return e.Kind },
		SetRenderedKeys: v.Render,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{" Title", "", "   body", ""}, frame(v))
}

func TestView_ResizeRewraps(t *testing.T) {
	plain := map[string]KindStyle{KindParagraph: {Style: lipgloss.NewStyle()}}
	h := newHost(t, 20, 5, paragraphs("aaaa bbbb cccc"), plain)
	p, _ := h.engine().Properties("aaaa bbbb cccc")
	require.Equal(t, 1, p.Height)

	h.v.Resize(10, 5)
	require.NoError(t, h.engine().ContainerResized())

	p, _ = h.engine().Properties("aaaa bbbb cccc")
	assert.Equal(t, 2, p.Height)
	assert.Equal(t, 2, h.engine().Extent())
}

func TestElement_Measure(t *testing.T) {
	v := New(10, 5)
	v.SetKindStyle(KindTag, KindStyle{Inline: true, Style: lipgloss.NewStyle().Padding(0, 1).MarginRight(3)})
	v.SetEntries([]Entry{{Key: "t", Kind: KindTag, Text: "go"}})
	v.Render([]string{"t"})
	el := v.Elements()[0]

	key, ok := el.DataKey()
	assert.True(t, ok)
	assert.Equal(t, "t", key)
	assert.Equal(t, KindTag, el.DataKind())
	assert.Equal(t, virtual.Size{Width: 4, Height: 1}, el.Measure(), "margins are not part of the size")

	inline, margin := el.Style()
	assert.True(t, inline)
	assert.Equal(t, virtual.EdgeTRBL(0, 3, 0, 0), margin)

	el.SetHidden(true)
	assert.Equal(t, virtual.Size{}, el.Measure())
}

func TestOverlay(t *testing.T) {
	type tc struct {
		line     string
		text     string
		x        int
		expected string
	}
	tests := map[string]tc{
		"start":     {line: "..........", text: "abc", x: 0, expected: "abc......."},
		"middle":    {line: "..........", text: "abc", x: 4, expected: "....abc..."},
		"cut right": {line: "..........", text: "abc", x: 8, expected: "........ab"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := overlay(tt.line, tt.text, tt.x, 10); got != tt.expected {
				t.Errorf("overlay() = %q, want %q", got, tt.expected)
			}
		})
	}
}
