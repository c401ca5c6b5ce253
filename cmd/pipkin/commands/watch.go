package commands

import (
	"github.com/spf13/cobra"

	"github.com/pipkin/pipkin/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the manifest whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verify, _ := cmd.Flags().GetBool("verify")
			return c.app.Watch(cmd.Context(), manifestPath(cmd), app.WatchOptions{
				Verify: verify,
			})
		},
	}
	cmd.Flags().Bool("verify", false, "Also verify pins against the index after each change")
	return cmd
}
