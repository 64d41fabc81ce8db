// Package cli wires the cobra command tree for shunt.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shunt",
		Short: "Shunt makes working with stacked branches fast & intuitive",
		Long: `Shunt is a command line tool for managing stacks of dependent branches.

Each branch in a stack is built on top of its parent; when an ancestor
changes, shunt rebases every descendant so the stack stays consistent,
and keeps one pull request per branch in sync with the remote.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("shunt {{.Version}} (" + commit + ", " + date + ")\n")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newUntrackCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newAmendCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newRestackCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newLogCmd())

	return rootCmd
}
