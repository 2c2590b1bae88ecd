package cli

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphviewer/pkg/pipeline"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/viewer"
)

// stdinPath reads a graph from standard input.
const stdinPath = "-"

// loadCommand creates the load command, which reports what a plain graph
// turns into.
func (c *CLI) loadCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load a plain graph and report nodes, edges and skipped edges",
		Long: `Load reads a plain graph JSON file ("-" for stdin) into a visual model and
reports how many nodes and edges were created. Edges whose endpoints are
missing or unresolved are skipped and listed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return c.runLoad(cmd.Context(), cmd.OutOrStdout(), args[0], g, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the load result as JSON")

	return cmd
}

func (c *CLI) runLoad(ctx context.Context, w io.Writer, input string, g plain.Graph, asJSON bool) error {
	prog := newProgress(c.Logger)
	v, err := c.loadViewer(ctx, g, nil)
	if err != nil {
		return err
	}
	res := v.Result()
	c.Logger.Debug("load finished", "elapsed", prog.elapsed())

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printSuccess(w, "Loaded %s", input)
	printStats(w, res, false)
	st := v.Stats()
	printKeyValue(w, "components", strconv.Itoa(st.Components))
	printKeyValue(w, "isolated", strconv.Itoa(st.Isolated))
	if !res.Clean() {
		printWarning(w, "%d edges skipped", len(res.Skipped))
		printSkipped(w, res.Skipped)
	}
	if input != stdinPath {
		printNextStep(w, "Render it", appName+" render "+input)
	}
	return nil
}

// loadViewer loads g into a fresh viewer configured from the CLI config and
// applies the property patches.
func (c *CLI) loadViewer(ctx context.Context, g plain.Graph, props []pipeline.Property) (*viewer.Viewer, error) {
	opts := c.pipelineOptions()
	opts.Properties = props
	return pipeline.NewRunner(nil, nil, c.Logger).Load(ctx, g, opts)
}

// readGraph decodes a plain graph from path, or from in when path is "-".
func readGraph(in io.Reader, path string) (plain.Graph, error) {
	if path == stdinPath {
		return plain.ReadGraph(in)
	}
	return plain.ReadGraphFile(path)
}

// writeGraph encodes g to path, or to out when path is empty or "-".
func writeGraph(out io.Writer, g plain.Graph, path string) error {
	if path == "" || path == stdinPath {
		return plain.WriteGraph(g, out)
	}
	return plain.WriteGraphFile(g, path)
}
