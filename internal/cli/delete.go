package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [branch]",
		Short: "Delete a branch and its shunt metadata (local-only)",
		Long: `Delete a branch and its shunt metadata (local-only).

Children are reparented onto the deleted branch's parent and restacked.
Unless --force is passed, the branch must be merged into trunk or have a
merged or closed pull request.

This command does not touch GitHub or the remote repository. If the branch
has an open pull request, close it manually.`,
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

			return actions.DeleteAction(cmd.Context(), rctx, actions.DeleteOptions{
				BranchName: branchName,
				Force:      force,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete the branch even if it is not merged or closed.")

	return cmd
}
