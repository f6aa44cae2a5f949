package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/grindlemire/go-virtual/internal/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

type simulateOptions struct {
	output   string
	parallel int
	verbose  bool
}

func newSimulateCmd(a *app) *cobra.Command {
	var opts simulateOptions
	cmd := &cobra.Command{
		Use:   "simulate scenario...",
		Short: "Replay scenario files against a mock container",
		Long: `Replay YAML or TOML scenario files. Each file describes a container,
item kinds, items and a list of steps; every step is reported with the
scroll offset, content extent and rendered keys that followed it.
Files run concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, a, opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: text or yaml")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", runtime.NumCPU(), "maximum scenarios run at once")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "list rendered keys for every step")
	return cmd
}

func runSimulate(cmd *cobra.Command, a *app, opts simulateOptions, paths []string) error {
	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	runner := scenario.NewRunner(a.log, a.cfg.EngineOptions()...)
	reports := make([]*scenario.Report, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.parallel, 1))
	for i, path := range paths {
		g.Go(func() error {
			s, err := scenario.Load(path)
			if err != nil {
				return err
			}
			report, err := runner.Run(ctx, s)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.log.Debug("simulation complete", zap.Int("scenarios", len(reports)))

	out := cmd.OutOrStdout()
	if opts.output == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(reports)
	}
	for _, r := range reports {
		writeReport(out, r, opts.verbose)
	}
	return nil
}

func writeReport(w io.Writer, r *scenario.Report, verbose bool) {
	fmt.Fprintln(w, titleStyle.Render(r.Name)+
		dimStyle.Render(fmt.Sprintf(" (%d items, at most %d rendered)", r.Items, r.MaxRendered)))
	for _, s := range r.Snapshots {
		line := fmt.Sprintf("  %3d %-28s top=%-6d extent=%-6d rendered=%-4d shown=%d",
			s.Step, s.Action, s.ScrollTop, s.Extent, len(s.Rendered), len(s.Shown))
		if s.Anchor != "" {
			line += " anchor=" + s.Anchor
		}
		fmt.Fprintln(w, line)
		if verbose {
			fmt.Fprintln(w, dimStyle.Render("      "+strings.Join(s.Shown, " ")))
		}
	}
}
