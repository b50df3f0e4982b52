package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/specscope/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var opts app.WatchOptions

	cmd := &cobra.Command{
		Use:   "watch SPEC",
		Short: "Re-analyze whenever the spec or the findings change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SpecPath = args[0]
			opts.ConfigPath = c.configPath
			return c.app.Watch(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.FindingsPath, "findings", "f", "", "Findings file produced by the linter (JSON or YAML)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Report format: text or json")
	cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "Rewrite Prometheus metrics to this file after every run")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 200*time.Millisecond, "Quiet period after a change before re-running")
	_ = cmd.MarkFlagRequired("findings")
	return cmd
}
