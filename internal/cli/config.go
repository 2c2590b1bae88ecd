package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphviewer/pkg/config"
)

// configCommand creates the config command, which prints the effective
// configuration as TOML.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: fmt.Sprintf(`Config prints the configuration after layering defaults, %s,
%s* environment variables and flags. The output is a valid config file.`,
			config.FileName, config.EnvPrefix),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(c.config())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
