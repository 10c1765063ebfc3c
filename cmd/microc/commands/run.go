package commands

import (
	"github.com/EricSDavis/MicroC/internal/app"
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline for every sample group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, _ := cmd.Flags().GetStringSlice("groups")
			stages, _ := cmd.Flags().GetStringSlice("stages")
			threads, _ := cmd.Flags().GetInt("threads")
			jsonOut, _ := cmd.Flags().GetBool("json")
			summary, _ := cmd.Flags().GetString("summary")
			return c.app.Run(cmd.Context(), app.RunOptions{
				Groups:      groups,
				Stages:      stages,
				Threads:     threads,
				JSON:        jsonOut,
				SummaryPath: summary,
			})
		},
	}
	cmd.Flags().StringSliceP("groups", "g", nil, "Restrict the run to the named sample groups")
	cmd.Flags().StringSliceP("stages", "s", nil, "Run the named stages and everything they depend on")
	cmd.Flags().IntP("threads", "t", 0, "Override the configured concurrency budget")
	cmd.Flags().Bool("json", false, "Emit logs as JSON, one object per line")
	cmd.Flags().String("summary", "", "Write the run summary to the given file")
	return cmd
}
