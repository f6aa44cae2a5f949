package scenario

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	virtual "github.com/grindlemire/go-virtual"
)

// Item is one scenario item.
type Item struct {
	Key  string
	Kind string
	// Ordinal counts the items of the same kind, used to cycle sizes.
	Ordinal int
}

// Snapshot records the container after one step.
type Snapshot struct {
	Step      int      `yaml:"step" toml:"step"`
	Action    string   `yaml:"action" toml:"action"`
	ScrollTop int      `yaml:"scroll_top" toml:"scroll_top"`
	Extent    int      `yaml:"extent" toml:"extent"`
	Rendered  []string `yaml:"rendered" toml:"rendered"`
	Shown     []string `yaml:"shown" toml:"shown"`
	Anchor    string   `yaml:"anchor,omitempty" toml:"anchor,omitempty"`
}

// Report is the outcome of one run.
type Report struct {
	Name        string     `yaml:"name" toml:"name"`
	Items       int        `yaml:"items" toml:"items"`
	MaxRendered int        `yaml:"max_rendered" toml:"max_rendered"`
	Snapshots   []Snapshot `yaml:"snapshots" toml:"snapshots"`
}

// Last returns the final snapshot.
func (r *Report) Last() Snapshot {
	if len(r.Snapshots) == 0 {
		return Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

// Runner replays scenarios. A Runner may run scenarios on several goroutines
// at once; every run gets its own registry and container.
type Runner struct {
	log  *zap.Logger
	opts []virtual.Option
}

// NewRunner creates a runner whose engines are configured with opts.
func NewRunner(log *zap.Logger, opts ...virtual.Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{log: log, opts: opts}
}

// Run replays s and returns a snapshot per step. The initial update is
// step 0. The context is checked between steps.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("scenario", s.Name))
	opts := append(slices.Clone(r.opts), virtual.WithLogger(log.Named("engine")))

	sess := newSession(s, virtual.NewRegistry[Item](opts...))
	report := &Report{Name: s.Name}

	record := func(step int, action string) {
		snap := sess.snapshot(step, action)
		report.Snapshots = append(report.Snapshots, snap)
		report.MaxRendered = max(report.MaxRendered, len(snap.Rendered))
		log.Debug("step",
			zap.Int("step", step),
			zap.String("action", action),
			zap.Int("scroll_top", snap.ScrollTop),
			zap.Int("rendered", len(snap.Rendered)),
		)
	}

	if err := sess.update(); err != nil {
		return nil, fmt.Errorf("initial update: %w", err)
	}
	record(0, "update")

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := sess.apply(step); err != nil {
			return report, fmt.Errorf("step %d (%s): %w", i+1, step.Action(), err)
		}
		record(i+1, step.Action())
	}
	report.Items = len(sess.items)
	log.Info("scenario finished",
		zap.Int("steps", len(s.Steps)),
		zap.Int("max_rendered", report.MaxRendered),
	)
	return report, nil
}

// session is the state of one run.
type session struct {
	s      *Scenario
	reg    *virtual.Registry[Item]
	c      *virtual.MockContainer
	kinds  map[string]Kind
	items  []Item
	counts map[string]int
	sizes  map[string]virtual.Size
	err    error // first error raised from a host callback
}

func newSession(s *Scenario, reg *virtual.Registry[Item]) *session {
	sess := &session{
		s:      s,
		reg:    reg,
		c:      virtual.NewMockContainer(s.Container.Width, s.Container.Height),
		kinds:  make(map[string]Kind, len(s.Kinds)),
		counts: make(map[string]int),
		sizes:  make(map[string]virtual.Size),
	}
	sess.c.SetPadding(s.Container.Padding.Edges())
	for _, k := range s.Kinds {
		sess.kinds[k.Name] = k
		sess.c.SetKindStyle(k.Name, k.Inline, k.Margin.Edges())
	}
	for _, g := range s.Items {
		sess.add(g)
	}
	sess.c.SetMeasure(func(key, _ string) virtual.Size { return sess.sizes[key] })
	sess.c.OnScroll(func() {
		if e, ok := sess.reg.Engine(sess.c); ok {
			sess.keep(e.Scrolled())
		}
	})
	sess.c.OnMount(func(el *virtual.MockElement) {
		if e, ok := sess.reg.Engine(sess.c); ok {
			sess.keep(e.ElementResized(el))
		}
	})
	return sess
}

// keep records the first error raised from a host callback.
func (sess *session) keep(err error) {
	if err != nil && sess.err == nil {
		sess.err = err
	}
}

func (sess *session) add(g Group) {
	prefix := g.Prefix
	if prefix == "" {
		prefix = g.Kind
	}
	for range g.Count {
		n := sess.counts[g.Kind]
		sess.counts[g.Kind]++
		it := Item{Key: fmt.Sprintf("%s%d", prefix, n), Kind: g.Kind, Ordinal: n}
		sess.items = append(sess.items, it)
		sess.sizes[it.Key] = sess.kinds[g.Kind].sizeAt(n)
	}
}

func (sess *session) kindOf(key string) string {
	for _, it := range sess.items {
		if it.Key == key {
			return it.Kind
		}
	}
	return ""
}

// rects stacks items vertically at their natural sizes for manual layout.
func (sess *session) rects() map[string]virtual.Rect {
	out := make(map[string]virtual.Rect, len(sess.items))
	y := 0
	for _, it := range sess.items {
		size := sess.sizes[it.Key]
		out[it.Key] = virtual.NewRect(0, y, size.Width, size.Height)
		y += size.Height
	}
	return out
}

func (sess *session) source() virtual.Source[Item] {
	src := virtual.Source[Item]{
		Items:    sess.items,
		Identity: func(it Item) string { return it.Key },
		Kind:     func(it Item) string { return it.Kind },
		SetRenderedKeys: func(keys []string) {
			sess.c.Render(keys, sess.kindOf)
		},
	}
	if sess.s.Manual {
		rects := sess.rects()
		src.Rect = func(it Item) (virtual.Rect, bool) {
			r, ok := rects[it.Key]
			return r, ok
		}
	}
	return src
}

func (sess *session) update() error {
	if _, err := sess.reg.Update(sess.c, sess.source()); err != nil {
		return err
	}
	return sess.takeErr()
}

func (sess *session) engine() *virtual.Engine[Item] {
	e, _ := sess.reg.Engine(sess.c)
	return e
}

func (sess *session) takeErr() error {
	err := sess.err
	sess.err = nil
	return err
}

func (sess *session) apply(step Step) error {
	e := sess.engine()
	var err error
	switch {
	case step.Scroll != nil:
		sess.c.SetScrollTop(*step.Scroll)
	case step.Resize != nil:
		sess.c.Resize(step.Resize.Width, step.Resize.Height)
		err = e.ContainerResized()
	case step.ScrollTo != nil:
		err = e.ScrollToItem(step.ScrollTo.Key, virtual.WithPosition(step.ScrollTo.Position))
	case step.Focus != "":
		sess.c.Focus(step.Focus)
		err = sess.update()
	case step.Blur:
		sess.c.Blur()
		err = sess.update()
	case len(step.Remove) > 0:
		sess.items = slices.DeleteFunc(sess.items, func(it Item) bool {
			return slices.Contains(step.Remove, it.Key)
		})
		err = sess.update()
	case step.Append != nil:
		sess.add(*step.Append)
		err = sess.update()
	case step.ResizeItem != nil:
		err = sess.resizeItem(*step.ResizeItem)
	}
	if err != nil {
		return err
	}
	return sess.takeErr()
}

func (sess *session) resizeItem(rs ItemSize) error {
	size := virtual.Size{Width: rs.Width, Height: rs.Height}
	sess.sizes[rs.Key] = size
	if sess.s.Manual {
		return sess.update()
	}
	el, ok := sess.c.SetNaturalSize(rs.Key, size)
	if !ok {
		// Not rendered: measured when it scrolls into view.
		return nil
	}
	return sess.engine().ElementResized(el)
}

func (sess *session) snapshot(step int, action string) Snapshot {
	e := sess.engine()
	snap := Snapshot{
		Step:      step,
		Action:    action,
		ScrollTop: sess.c.ScrollTop(),
		Extent:    e.Extent(),
		Rendered:  e.RenderedKeys(),
	}
	for _, el := range sess.c.MockElements() {
		if !el.Hidden() {
			snap.Shown = append(snap.Shown, el.Key())
		}
	}
	if a, ok := e.Anchor(); ok {
		snap.Anchor = a.Key
	}
	return snap
}
