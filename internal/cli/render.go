package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphviewer/pkg/pipeline"
	"github.com/matzehuels/graphviewer/pkg/render"
	"github.com/matzehuels/graphviewer/pkg/watch"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // json, svg, dot, graphviz, pdf, png
	props   []string // id:name=value patches
	refresh bool     // ignore cached artifacts
	watch   bool     // re-render on change
}

// renderCommand creates the render command for producing artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a plain graph to SVG, DOT, PDF or PNG",
		Long: `Render loads a plain graph and writes one artifact per format.

With a single format, --output names the file ("-" for stdout). With
several, --output is a base path and each format gets its own extension.
Without --output, files are written next to the input.

With --watch, the input is rendered again whenever it changes.`,
		Example: `  graphviewer render graph.json
  graphviewer render graph.json -f svg,dot -o out/graph
  graphviewer render graph.json --set a:color=red --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			if opts.watch && args[0] == stdinPath {
				return fmt.Errorf("--watch needs a file input")
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), graphviz, dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringArrayVar(&opts.props, "set", nil, "raw property patch id:name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input changes")
	cmd.Flags().Float64("padding", 0, "space around the drawing")
	cmd.Flags().Float64("scale", 0, "PNG scale factor")
	cmd.Flags().Bool("detailed", false, "list node attributes in DOT labels")
	cmd.Flags().Duration("debounce", 0, "quiet period before a watched change re-renders")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	props := make([]pipeline.Property, 0, len(opts.props))
	for _, s := range opts.props {
		p, err := parseProperty(s)
		if err != nil {
			return err
		}
		props = append(props, p)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.Formats = opts.formats
	popts.Properties = props
	popts.Refresh = opts.refresh
	if input == stdinPath {
		g, err := readGraph(cmd.InOrStdin(), input)
		if err != nil {
			return err
		}
		popts.Graph = &g
	} else {
		popts.Input = input
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err := c.renderOnce(ctx, runner, popts, input, opts.output, out, errOut); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	w, err := watch.New([]string{input}, watch.Options{
		Debounce: c.config().Watch.Debounce,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	printInfo(errOut, "Watching %s (ctrl+c to stop)", input)
	err = w.Run(ctx, func(ctx context.Context, _ watch.Event) error {
		return c.renderOnce(ctx, runner, popts, input, opts.output, out, errOut)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// renderOnce runs the pipeline and writes every artifact.
func (c *CLI) renderOnce(ctx context.Context, runner *pipeline.Runner, popts pipeline.Options, input, output string, out, errOut io.Writer) error {
	// Execute normalizes Formats in place.
	popts.Formats = slices.Clone(popts.Formats)

	var spin *Spinner
	if slices.Contains(popts.Formats, string(render.FormatPDF)) || slices.Contains(popts.Formats, string(render.FormatPNG)) {
		spin = newSpinner(ctx, errOut, "Rendering "+input)
		spin.Start()
	}
	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, popts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := outputPaths(input, output, popts.Formats)
	if err != nil {
		return err
	}
	toStdout := output == stdinPath
	if !toStdout {
		printSuccess(errOut, "Rendered %s", input)
		printStats(errOut, res.Load, res.CacheInfo.RenderHit)
	}
	for _, format := range popts.Formats {
		data := res.Artifacts[format]
		if toStdout {
			if _, err := out.Write(data); err != nil {
				return err
			}
			continue
		}
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(errOut, path)
	}
	if n := len(res.Load.Skipped); n > 0 {
		printWarning(errOut, "%d edges skipped (see: %s load %s)", n, appName, input)
	}
	prog.done("render finished", "formats", strings.Join(popts.Formats, ","), "cached", res.CacheInfo.RenderHit)
	return nil
}

// outputPaths maps each format to its output file. A single format with
// an explicit output uses it verbatim; otherwise the output (or the input)
// minus its extension is the base path.
func outputPaths(input, output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if output == stdinPath {
		if len(formats) != 1 {
			return nil, fmt.Errorf("stdout output needs exactly one format, got %d", len(formats))
		}
		return paths, nil
	}
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths, nil
	}

	base := output
	if base == "" {
		base = input
		if base == stdinPath {
			base = "graph"
		}
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, format := range formats {
		f, err := render.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		ext := f.Ext()
		if f == render.FormatGraphviz {
			ext = "graphviz." + ext
		}
		if f == render.FormatJSON && output == "" {
			// Keep the input intact.
			ext = "export.json"
		}
		paths[format] = base + "." + ext
	}
	return paths, nil
}
