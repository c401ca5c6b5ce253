package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show the semantic difference between two manifests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Diff(cmd.Context(), args[0], args[1])
		},
	}
}
