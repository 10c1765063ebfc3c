package commands

import (
	"github.com/EricSDavis/MicroC/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove run state and scratch space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), app.CleanOptions{All: all})
		},
	}
	cmd.Flags().Bool("all", false, "Remove the entire output directory, including final artifacts")
	return cmd
}
