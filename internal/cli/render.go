package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/zonesmith/pkg/pipeline"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file (single format) or base path
	template string // render a built-in template instead of a file
	formats  []string
	style    string
	width    int
	height   int
	edges    bool // draw edge ids on the SVG
	detailed bool // coordinates in adjacency node labels
	noLabels bool
	selected int
	noCache  bool
	refresh  bool // re-render even when cached
	watch    bool // re-render whenever the input changes
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a layout to SVG, PNG, PDF, DOT, adjacency or JSON",
		Long: `Render a layout file to one or more artifacts.

Formats:
  svg        the zones as a drawing (default)
  png, pdf   the drawing converted with rsvg-convert
  dot        the region adjacency graph in Graphviz syntax
  adjacency  the adjacency graph drawn by Graphviz
  json       zones, edge graph and adjacency as one document

Artifacts are cached by layout content and options.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.template != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.watch && opts.template != "" {
				return fmt.Errorf("--watch needs a file")
			}

			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			input := ""
			if len(args) > 0 {
				input = args[0]
			}
			if err := runRender(cmd.Context(), runner, input, c.newRenderJob(&opts)); err != nil {
				if !opts.watch {
					return err
				}
				printError("%v", err)
			}
			if opts.watch {
				return watchRender(cmd.Context(), runner, input, c.newRenderJob(&opts))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "render a built-in template")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats(), ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: simple, blueprint (default from config)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "drawing width in pixels (default from config)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "drawing height in pixels (default from config)")
	cmd.Flags().BoolVar(&opts.edges, "edges", false, "draw edge ids")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show coordinates in adjacency graphs")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit zone names from the SVG")
	cmd.Flags().IntVar(&opts.selected, "select", -1, "highlight a region by index")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the file changes")

	return cmd
}

// renderJob is one render invocation.
type renderJob struct {
	template string
	output   string
	opts     pipeline.Options
}

// newRenderJob merges the flags over the config's render defaults.
func (c *CLI) newRenderJob(o *renderOpts) renderJob {
	po := c.Config.RenderOptions(o.formats...)
	if o.style != "" {
		po.Style = o.style
	}
	if o.width > 0 {
		po.Width = o.width
	}
	if o.height > 0 {
		po.Height = o.height
	}
	po.Edges = o.edges
	po.Detailed = o.detailed
	po.NoLabels = o.noLabels
	if o.selected >= 0 {
		po.Selected = &o.selected
	}
	po.Refresh = o.refresh
	po.Logger = c.Logger
	return renderJob{template: o.template, output: o.output, opts: po}
}

// runRender renders the layout and writes one file per format.
func runRender(ctx context.Context, runner *pipeline.Runner, input string, job renderJob) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	l, err := loadLayout(input, job.template)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d zones", l.Name, len(l.Zones))

	res, err := runner.Execute(ctx, l.Zones, job.opts)
	if err != nil {
		return err
	}

	base := basePath(job.output, input, l.Name)
	for _, format := range job.opts.Formats {
		path := outputPath(job.output, base, format, len(job.opts.Formats))
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(res.Stats.RegionCount, res.Stats.EdgeCount, res.CacheInfo.AllCached())
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(res.Artifacts)))
	return nil
}

// basePath derives the base output path. Without an output it strips the
// extension from the input, or uses the layout name for templates. A known
// format extension on output is stripped.
func basePath(output, input, name string) string {
	if output == "" {
		if input == "" {
			return name
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	longest := ""
	for _, f := range pipeline.Formats() {
		if ext := "." + pipeline.Extension(f); strings.HasSuffix(output, ext) && len(ext) > len(longest) {
			longest = ext
		}
	}
	return strings.TrimSuffix(output, longest)
}

// outputPath names the file for one format. A single format with an
// explicit output writes exactly there.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + "." + pipeline.Extension(format)
}

// watchRender re-renders whenever input changes until ctx is cancelled. The
// directory is watched rather than the file so that editors replacing the
// file on save are still seen.
func watchRender(ctx context.Context, runner *pipeline.Runner, input string, job renderJob) error {
	logger := loggerFromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	printInfo("Watching %s (ctrl+c to stop)", input)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			trigger = timer.C
		case <-trigger:
			trigger = nil
			if err := runRender(ctx, runner, input, job); err != nil {
				printError("%v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
