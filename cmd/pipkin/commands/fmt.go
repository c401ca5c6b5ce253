package commands

import (
	"github.com/spf13/cobra"

	"github.com/pipkin/pipkin/internal/app"
)

func (c *CLI) newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite the manifest in canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")
			return c.app.Format(cmd.Context(), manifestPath(cmd), app.FormatOptions{
				Check: check,
			})
		},
	}
	cmd.Flags().Bool("check", false, "Report non-canonical formatting without rewriting the file")
	return cmd
}
