package virtual

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Source describes the collection a container displays.
type Source[T any] struct {
	// Items is the full ordered collection.
	Items []T
	// Identity returns a stable key, unique per item.
	Identity func(T) string
	// Kind classifies items that share layout characteristics.
	Kind func(T) string
	// Rect, when set, switches the engine to manual layout. A false second
	// result means the item has no rectangle.
	Rect func(T) (Rect, bool)

	// RenderedKeys is the key sequence the host currently renders.
	RenderedKeys []string
	// SetRenderedKeys asks the host to render a new key sequence. It is only
	// called when the sequence changed.
	SetRenderedKeys func(keys []string)
}

// Engine windows one container. It is not safe for concurrent use: every
// call must come from the goroutine that owns the container.
type Engine[T any] struct {
	container Container
	settings  settings
	log       *zap.Logger

	src     Source[T]
	items   []T
	keys    []string
	kinds   []string
	indexOf map[string]int
	// lastItem remembers the item each rendered key was last rendered with.
	lastItem map[string]T

	props     *propStore
	estimator *sizeEstimator
	rendered  []string
	resized   keySet // keys whose element reported a size change
	anchor    *ScrollAnchor
	extent    int

	lastScrollTop int
	direction     int

	inProgress bool
	rerun      bool
}

func newEngine[T any](c Container, s settings) *Engine[T] {
	return &Engine[T]{
		container:     c,
		settings:      s,
		log:           s.logger,
		indexOf:       make(map[string]int),
		lastItem:      make(map[string]T),
		props:         newPropStore(),
		estimator:     newSizeEstimator(),
		resized:       make(keySet),
		lastScrollTop: c.ScrollTop(),
	}
}

// setSource installs a new collection. Nothing changes when the identities
// are not unique.
func (e *Engine[T]) setSource(src Source[T]) error {
	if src.Identity == nil || src.Kind == nil {
		return ErrNoSource
	}

	keys := make([]string, len(src.Items))
	kinds := make([]string, len(src.Items))
	indexOf := make(map[string]int, len(src.Items))
	for i, item := range src.Items {
		key := src.Identity(item)
		if prev, dup := indexOf[key]; dup {
			return fmt.Errorf("%w: %q at index %d and %d", ErrDuplicateKey, key, prev, i)
		}
		indexOf[key] = i
		keys[i] = key
		kinds[i] = src.Kind(item)
	}

	e.src = src
	e.items = src.Items
	e.keys = keys
	e.kinds = kinds
	e.indexOf = indexOf
	if src.RenderedKeys != nil {
		e.rendered = slices.Clone(src.RenderedKeys)
	}
	return nil
}

// layoutPass runs the update-and-layout pipeline. A call made while a pass
// is running only asks that pass to repeat once it is done.
func (e *Engine[T]) layoutPass() error {
	if e.inProgress {
		e.rerun = true
		return nil
	}
	e.inProgress = true
	defer func() { e.inProgress = false }()

	for range maxPasses {
		e.rerun = false
		if err := e.runOnce(); err != nil {
			return err
		}
		if !e.rerun {
			return nil
		}
	}
	e.log.Debug("layout pass limit reached", zap.Int("passes", maxPasses))
	return nil
}

func (e *Engine[T]) runOnce() error {
	rects, err := e.manualRects()
	if err != nil {
		return err
	}

	prev := e.rendered
	vis := e.visible(rects)
	e.reconcileKeys(vis)

	elements, err := e.syncElements(vis, rects != nil)
	if err != nil {
		return err
	}

	if rects != nil {
		e.layoutManual(rects, elements)
	} else {
		e.layoutFlow(elements)
	}
	// The placeholder is sized before correcting so the host clamps the
	// corrected offset against the new extent.
	e.container.SetExtent(e.extent)
	e.correctAnchor()
	e.rememberItems(prev)

	e.log.Debug("layout pass",
		zap.Int("items", len(e.keys)),
		zap.Int("desired", len(vis.desired)),
		zap.Int("rendered", len(e.rendered)),
		zap.Int("extent", e.extent),
		zap.Bool("manual", rects != nil),
	)
	return nil
}

// reconcileKeys updates the render-key sequence and tells the host when it
// changed.
func (e *Engine[T]) reconcileKeys(vis visibility) {
	next := reconcile(e.rendered, vis, e.indexOf, e.settings.maxHidden)
	if slices.Equal(next, e.rendered) {
		return
	}
	e.rendered = next
	if e.src.SetRenderedKeys != nil {
		e.src.SetRenderedKeys(slices.Clone(next))
	}
}

// syncElements walks the materialized elements, hides the ones outside the
// window and brings cached sizes up to date. Only elements that are new,
// reported a resize, or lost their size to a container resize are measured.
// It returns the displayed elements by key.
func (e *Engine[T]) syncElements(vis visibility, manual bool) (map[string]Element, error) {
	els := e.container.Elements()
	displayed := make(map[string]Element, len(els))

	for i, el := range els {
		key, ok := el.DataKey()
		if !ok {
			return nil, fmt.Errorf("%w: element %d of kind %q rendered for %q",
				ErrMissingKey, i, el.DataKind(), e.renderedAt(i))
		}

		show := vis.desired.has(key)
		el.SetHidden(!show)
		if !show {
			continue
		}
		displayed[key] = el

		kind := el.DataKind()
		if idx, ok := e.indexOf[key]; ok {
			kind = e.kinds[idx]
		}
		if e.estimator.needsStyle(kind) {
			inline, margin := el.Style()
			e.estimator.confirmStyle(kind, inline, margin)
		}
		resized := e.resized.has(key)
		delete(e.resized, key)
		if manual {
			continue
		}

		p := e.props.at(e.props.ensure(key, kind, e.estimator.Estimate(kind)))
		if p.Measured && !resized {
			continue
		}

		size := el.Measure()
		if p.Measured && size == (Size{Width: p.Width, Height: p.Height}) {
			continue
		}
		p.Width, p.Height = size.Width, size.Height
		p.Measured = true
		e.estimator.Record(kind, size.Width, size.Height)
	}
	return displayed, nil
}

func (e *Engine[T]) renderedAt(i int) string {
	if i < len(e.rendered) {
		return e.rendered[i]
	}
	return "?"
}

// rememberItems keeps the last item value of every key rendered during this
// pass or the one before, so a host still rendering a key whose item just
// disappeared can be served.
func (e *Engine[T]) rememberItems(prev []string) {
	next := make(map[string]T, len(e.rendered))
	for _, keys := range [][]string{prev, e.rendered} {
		for _, key := range keys {
			if i, ok := e.indexOf[key]; ok {
				next[key] = e.items[i]
			} else if item, ok := e.lastItem[key]; ok {
				next[key] = item
			}
		}
	}
	e.lastItem = next
}

// ContainerResized handles a size change of the container itself. Kind
// styles must be reconfirmed and every cached item size is zeroed so flow
// layout measures again; kind averages survive.
func (e *Engine[T]) ContainerResized() error {
	e.estimator.invalidateStyles()
	e.props.zeroSizes()
	return e.layoutPass()
}

// ElementResized handles a size change of one materialized item element.
func (e *Engine[T]) ElementResized(el Element) error {
	key, ok := el.DataKey()
	if !ok {
		return fmt.Errorf("%w: resized element of kind %q", ErrMissingKey, el.DataKind())
	}
	e.resized.add(key)
	return e.layoutPass()
}

// Scrolled handles a scroll event of the container.
func (e *Engine[T]) Scrolled() error {
	offset := e.container.ScrollTop()
	switch {
	case offset > e.lastScrollTop:
		e.direction = 1
	case offset < e.lastScrollTop:
		e.direction = -1
	default:
		e.direction = 0
	}
	e.lastScrollTop = offset
	return e.layoutPass()
}

// ScrollToItem scrolls so the item identified by key lines up with the
// viewport at the requested position. Under manual layout the target is
// known and the container smooth-scrolls there at once. Under flow layout an
// anchor is armed and corrected on every pass until it converges.
func (e *Engine[T]) ScrollToItem(key string, opts ...ScrollOption) error {
	idx, ok := e.indexOf[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	var cfg scrollConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if e.src.Rect != nil {
		r, ok := e.src.Rect(e.items[idx])
		if !ok {
			return fmt.Errorf("%w: %q has no rectangle", ErrUnknownKey, key)
		}
		if !r.IsComplete() {
			return fmt.Errorf("%w: item %q: %+v", ErrIncompleteRect, key, r)
		}
		viewport := e.container.ViewportSize().Height
		e.container.SmoothScrollTo(r.Y + pin(r.Height, cfg.position) - pin(viewport, cfg.position))
		return nil
	}

	e.anchor = &ScrollAnchor{Key: key, ItemPin: cfg.position, WindowPin: cfg.position}
	return e.layoutPass()
}

// Item returns the item rendered under key. When the item left the data
// since the last pass, the last value rendered for that key is returned
// and a warning is logged.
func (e *Engine[T]) Item(key string) (T, bool) {
	if i, ok := e.indexOf[key]; ok {
		return e.items[i], true
	}
	item, ok := e.lastItem[key]
	e.log.Warn("render key has no item, reusing last rendered value",
		zap.String("key", key), zap.Bool("cached", ok))
	return item, ok
}

// RenderedKeys returns the key sequence the host is asked to render.
func (e *Engine[T]) RenderedKeys() []string {
	return slices.Clone(e.rendered)
}

// Properties returns the cached geometry of an item.
func (e *Engine[T]) Properties(key string) (ItemProperties, bool) {
	return e.props.lookup(key)
}

// Kind returns the cached properties of an item kind.
func (e *Engine[T]) Kind(kind string) (KindProperties, bool) {
	return e.estimator.Lookup(kind)
}

// Anchor returns the active scroll anchor, if any.
func (e *Engine[T]) Anchor() (ScrollAnchor, bool) {
	if e.anchor == nil {
		return ScrollAnchor{}, false
	}
	return *e.anchor, true
}

// Extent returns the total content height computed by the last pass.
func (e *Engine[T]) Extent() int {
	return e.extent
}

// InProgress reports whether a pass is running.
func (e *Engine[T]) InProgress() bool {
	return e.inProgress
}

// Container returns the container the engine is attached to.
func (e *Engine[T]) Container() Container {
	return e.container
}

// Estimate returns the current size estimate for a kind.
func (e *Engine[T]) Estimate(kind string) Size {
	return e.estimator.Estimate(kind)
}

// InvalidateKind discards the size samples recorded for a kind. Its style
// metadata is kept.
func (e *Engine[T]) InvalidateKind(kind string) {
	e.estimator.Invalidate(kind)
}
