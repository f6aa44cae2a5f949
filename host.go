package virtual

// Container is the scrollable host element an Engine is attached to.
//
// All methods are synchronous. Measurement-related reads may force the host
// to recompute pending layout, so the engine only calls them when it has
// reason to believe something changed.
type Container interface {
	// ScrollTop returns the current vertical scroll offset.
	ScrollTop() int
	// SetScrollTop moves the scroll offset. Hosts clamp it to their scrollable range.
	SetScrollTop(y int)
	// SmoothScrollTo starts an animated scroll towards y.
	SmoothScrollTo(y int)

	// ViewportSize returns the client size of the scrolling viewport.
	ViewportSize() Size
	// Padding returns the container's content padding.
	Padding() Edges
	// ScrollHeight returns the total scrollable height the host reports.
	ScrollHeight() int
	// SetExtent sizes the trailing placeholder so the host reports the
	// correct total scrollable height.
	SetExtent(height int)

	// Elements returns the elements currently materialized for items.
	Elements() []Element
	// FocusedKey returns the data key of the element holding input focus.
	FocusedKey() (string, bool)
}

// Element is the element a host materializes for one item.
//
// Every element must expose the key and kind of the item it was created for.
// The engine uses them to reattach cached sizes after the host re-renders.
type Element interface {
	// DataKey returns the item key. ok is false when the host dropped the marker.
	DataKey() (key string, ok bool)
	// DataKind returns the item kind.
	DataKind() string

	// Measure returns the element's current border-box size.
	Measure() Size
	// Style returns the computed flow style: whether the element flows
	// inline and its outer margin.
	Style() (inline bool, margin Edges)

	// SetPosition places the element absolutely, relative to the
	// container's content box.
	SetPosition(x, y int)
	// SetWidth stretches the element; used for kinds that do not flow inline.
	SetWidth(width int)
	// SetSize sizes the element; used by manual layout.
	SetSize(width, height int)
	// SetHidden toggles the "not displayed" treatment. Hidden elements stay
	// mounted but take no part in layout or scrollable extent.
	SetHidden(hidden bool)
}
