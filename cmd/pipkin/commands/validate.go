package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the manifest parses and satisfies its invariants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Validate(cmd.Context(), manifestPath(cmd))
		},
	}
}
