package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/specscope/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	var opts app.GraphOptions

	cmd := &cobra.Command{
		Use:   "graph SPEC",
		Short: "Print the component dependency graph of a spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.ConfigPath = c.configPath
			return c.app.Graph(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")
	return cmd
}
