package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command, an interactive browser over
// the nodes and edges of a loaded graph.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Browse the nodes and edges of a graph interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := readGraph(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v, err := c.loadViewer(cmd.Context(), g, nil)
			if err != nil {
				return err
			}
			res := v.Result()
			title := fmt.Sprintf("%s · %d nodes · %d edges", args[0], res.Nodes, res.Edges)

			p := tea.NewProgram(NewItemListModel(title, v.Export()),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}
}
