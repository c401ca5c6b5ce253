// Package commands implements the CLI commands for the pipkin tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pipkin/pipkin/internal/app"
	"github.com/pipkin/pipkin/internal/build"
	"github.com/pipkin/pipkin/internal/core/domain"
)

// CLI represents the command line interface for pipkin.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Validate(ctx context.Context, path string) error
	Format(ctx context.Context, path string, opts app.FormatOptions) error
	Verify(ctx context.Context, path string) error
	Lock(ctx context.Context, path string, opts app.LockOptions) error
	Diff(ctx context.Context, oldPath, newPath string) error
	Watch(ctx context.Context, path string, opts app.WatchOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "pipkin",
		Short:         "A validator, verifier and formatter for Pipfile manifests",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("file", "f", domain.DefaultManifestPath(), "Path to the manifest")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newValidateCmd())
	rootCmd.AddCommand(c.newFmtCmd())
	rootCmd.AddCommand(c.newVerifyCmd())
	rootCmd.AddCommand(c.newLockCmd())
	rootCmd.AddCommand(c.newDiffCmd())
	rootCmd.AddCommand(c.newWatchCmd())
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

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// manifestPath returns the manifest location from the persistent --file flag.
func manifestPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("file")
	return path
}
