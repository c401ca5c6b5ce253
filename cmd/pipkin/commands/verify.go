package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every pin against its index and the host interpreter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Verify(cmd.Context(), manifestPath(cmd))
		},
	}
}
