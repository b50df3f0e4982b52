// Package commands implements the CLI commands for specscope.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/specscope/internal/app"
	"go.trai.ch/specscope/internal/build"
)

// CLI represents the command line interface for specscope.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	jsonLogs   bool
	verbose    bool
}

// Application represents the application logic interface.
type Application interface {
	Analyze(ctx context.Context, opts app.AnalyzeOptions) error
	Graph(ctx context.Context, opts app.GraphOptions) error
	Enrich(ctx context.Context, opts app.EnrichOptions) error
	Watch(ctx context.Context, opts app.WatchOptions) error
	ConfigureLogging(json, verbose bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "specscope",
		Short:         "Dependency-aware security analysis for OpenAPI specs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.ConfigureLogging(c.jsonLogs, c.verbose)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to specscope.yaml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonLogs, "json-logs", false, "Write logs as JSON records")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newAnalyzeCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newEnrichCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
