package cli

import (
	"github.com/spf13/cobra"
)

// exportCommand creates the export command, which round-trips a graph
// through the visual model.
func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Load a plain graph and write it back as plain JSON",
		Long: `Export loads a plain graph and writes the model back out. Nodes carry their
computed x/y centers and edges reference their endpoints by id; skipped
edges are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v, err := c.loadViewer(cmd.Context(), g, nil)
			if err != nil {
				return err
			}
			if err := writeGraph(cmd.OutOrStdout(), v.Export(), output); err != nil {
				return err
			}
			if output != "" && output != stdinPath {
				printFile(cmd.ErrOrStderr(), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
