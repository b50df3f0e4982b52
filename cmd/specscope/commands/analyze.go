package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/specscope/internal/app"
)

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	var opts app.AnalyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze SPEC",
		Short: "Analyze linter findings against a spec and report exploit chains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.ConfigPath = c.configPath
			return c.app.Analyze(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.FindingsPath, "findings", "f", "", "Findings file produced by the linter (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Report format: text or json")
	cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "Write Prometheus metrics to this file after the run")
	_ = cmd.MarkFlagRequired("findings")
	return cmd
}
