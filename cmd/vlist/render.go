package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	virtual "github.com/grindlemire/go-virtual"
	"github.com/grindlemire/go-virtual/internal/termview"
)

type renderOptions struct {
	width, height int
	offset        int
	item          string
	position      float64
}

func newRenderCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Window a text document into the terminal",
		Long: `Render one screen of a plain-text document. Lines starting with "# " are
headings, "- " starts a bullet, "tags:" lists inline tags, anything else
forms paragraphs. Reads standard input when the file is "-" or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runRender(cmd, a, opts, path)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", 0, "viewport width in cells (default: terminal width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "viewport height in rows (default: terminal height)")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "scroll offset in rows")
	cmd.Flags().StringVar(&opts.item, "item", "", "scroll to the entry with this key")
	cmd.Flags().Float64Var(&opts.position, "position", 0, "with --item, where the entry sits: 0 top, 0.5 center, 1 bottom")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts renderOptions, path string) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	entries, err := termview.ParseDocument(r)
	if err != nil {
		return err
	}

	width, height := viewportSize(opts)
	v := termview.New(width, height)
	termview.Apply(v, termview.DefaultStyles())

	log := a.log.Named("render")
	reg := virtual.NewRegistry[termview.Entry](append(a.cfg.EngineOptions(), virtual.WithLogger(log))...)
	src := virtual.Source[termview.Entry]{
		Items:           entries,
		Identity:        func(e termview.Entry) string { return e.Key },
		Kind:            func(e termview.Entry) string { return e.Kind },
		SetRenderedKeys: v.Render,
	}

	// Host callbacks run inside a pass; the first error they raise is
	// reported once the triggering call returns.
	var hostErr error
	keep := func(err error) {
		if err != nil && hostErr == nil {
			hostErr = err
		}
	}
	v.OnScroll(func() {
		if e, ok := reg.Engine(v); ok {
			keep(e.Scrolled())
		}
	})
	v.OnMount(func(el virtual.Element) {
		if e, ok := reg.Engine(v); ok {
			keep(e.ElementResized(el))
		}
	})
	v.SetLookup(func(key string) (termview.Entry, bool) {
		if e, ok := reg.Engine(v); ok {
			return e.Item(key)
		}
		return termview.Entry{}, false
	})

	if _, err := reg.Update(v, src); err != nil {
		return err
	}
	if hostErr != nil {
		return hostErr
	}
	e, _ := reg.Engine(v)

	switch {
	case opts.item != "":
		if err := e.ScrollToItem(opts.item, virtual.WithPosition(opts.position)); err != nil {
			return err
		}
	case opts.offset > 0:
		v.SetScrollTop(opts.offset)
	}
	if hostErr != nil {
		return hostErr
	}

	log.Debug("rendered",
		zap.Int("entries", len(entries)),
		zap.Int("rendered", len(e.RenderedKeys())),
		zap.Int("scroll_top", v.ScrollTop()),
	)
	fmt.Fprintln(cmd.OutOrStdout(), v.Frame())
	return nil
}

func viewportSize(opts renderOptions) (int, int) {
	width, height := 80, 24
	if w, h, ok := terminalSize(int(os.Stdout.Fd())); ok {
		width, height = w, h
	}
	if opts.width > 0 {
		width = opts.width
	}
	if opts.height > 0 {
		height = opts.height
	}
	return width, height
}
