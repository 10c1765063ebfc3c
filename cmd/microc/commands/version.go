package commands

import (
	"fmt"

	"github.com/EricSDavis/MicroC/internal/build"
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("microc version %s (commit %s, built %s)\n", build.Version, build.Commit, build.Date)
		},
	}
}
