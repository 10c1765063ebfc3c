// Package commands implements the CLI commands for the microc pipeline engine.
package commands

import (
	"context"
	"io"

	"github.com/EricSDavis/MicroC/internal/app"
	"github.com/EricSDavis/MicroC/internal/build"
	"github.com/spf13/cobra"
)

// Application is the surface of the app layer the CLI drives.
type Application interface {
	Run(ctx context.Context, opts app.RunOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// CLI represents the command line interface for microc.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "microc",
		Short:         "A dependency-driven execution engine for sequencing pipelines",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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

// SetOutput redirects command output and errors. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
