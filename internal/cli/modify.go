package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newAmendCmd creates the amend command
func newAmendCmd() *cobra.Command {
	var opts actions.ModifyOptions

	cmd := &cobra.Command{
		Use:   "amend",
		Short: "Amend the current branch's tip commit and restack its descendants",
		Long: `Amend the most recent commit on the current branch, then rebase every
branch above it so the stack stays consistent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			opts.CreateCommit = false
			return actions.ModifyAction(cmd.Context(), rctx, opts)
		},
	}

	addStagingFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Commit message.")
	cmd.Flags().BoolVar(&opts.NoEdit, "no-edit", false, "Keep the existing commit message.")

	return cmd
}

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var opts actions.ModifyOptions

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Create a new commit on the current branch and restack its descendants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			opts.CreateCommit = true
			return actions.ModifyAction(cmd.Context(), rctx, opts)
		},
	}

	addStagingFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Commit message.")

	return cmd
}

func addStagingFlags(cmd *cobra.Command, opts *actions.ModifyOptions) {
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Stage all changes before committing.")
	cmd.Flags().BoolVarP(&opts.Update, "update", "u", false, "Stage changes to tracked files only.")
	cmd.Flags().BoolVarP(&opts.Patch, "patch", "p", false, "Pick hunks to stage interactively.")
}
