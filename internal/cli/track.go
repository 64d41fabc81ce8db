package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newTrackCmd creates the track command
func newTrackCmd() *cobra.Command {
	var (
		parent string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "track [branch]",
		Short: "Start tracking a branch as part of a stack",
		Long: `Start tracking a branch as part of a stack by assigning it a parent.
Defaults to the current branch with trunk as the parent.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}
			if branchName == "" {
				branchName = rctx.Engine.CurrentBranch()
			}

			return actions.TrackAction(rctx, actions.TrackOptions{
				BranchName: branchName,
				Parent:     parent,
				Force:      force,
			})
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "The parent branch. Defaults to trunk.")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the ancestry check.")

	return cmd
}

// newUntrackCmd creates the untrack command
func newUntrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untrack [branch]",
		Short: "Stop tracking a branch",
		Long: `Stop tracking a branch. Children of the branch are reparented onto
its parent so their stacks stay intact. The branch itself is not deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}
			if branchName == "" {
				branchName = rctx.Engine.CurrentBranch()
			}

			return actions.UntrackAction(rctx, branchName)
		},
	}

	return cmd
}
