package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/specscope/internal/app"
)

func (c *CLI) newEnrichCmd() *cobra.Command {
	var opts app.EnrichOptions

	cmd := &cobra.Command{
		Use:   "enrich SPEC",
		Short: "Print findings enriched with exposure and dependency facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.ConfigPath = c.configPath
			return c.app.Enrich(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.FindingsPath, "findings", "f", "", "Findings file produced by the linter (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Output format: text or json")
	_ = cmd.MarkFlagRequired("findings")
	return cmd
}
