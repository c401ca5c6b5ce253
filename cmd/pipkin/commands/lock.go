package commands

import (
	"github.com/spf13/cobra"

	"github.com/pipkin/pipkin/internal/app"
)

func (c *CLI) newLockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Freeze the verified manifest into a lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")
			return c.app.Lock(cmd.Context(), manifestPath(cmd), app.LockOptions{
				Check: check,
			})
		},
	}
	cmd.Flags().Bool("check", false, "Report a stale lockfile without writing a new one")
	return cmd
}
