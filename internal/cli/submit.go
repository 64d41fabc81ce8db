package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newSubmitCmd creates the submit command
func newSubmitCmd() *cobra.Command {
	var opts actions.SubmitOptions

	cmd := &cobra.Command{
		Use:   "submit [branch]",
		Short: "Push branches and create or update their pull requests",
		Long: `Push the branches of the current stack and create or update a pull
request for each one, with the parent branch as the PR base. Only the
minimal remote action is taken per branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			if len(args) > 0 {
				opts.BranchName = args[0]
			}
			return actions.SubmitAction(cmd.Context(), rctx, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Stack, "stack", "s", false, "Submit descendants as well as ancestors.")
	cmd.Flags().BoolVarP(&opts.Draft, "draft", "d", false, "Create or convert PRs as drafts.")
	cmd.Flags().BoolVarP(&opts.Publish, "publish", "P", false, "Mark draft PRs as ready for review.")
	cmd.Flags().BoolVarP(&opts.UpdateOnly, "update-only", "u", false, "Only update existing PRs, never create new ones.")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Show the plan without pushing or touching PRs.")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Force push instead of force-with-lease.")
	cmd.Flags().BoolVar(&opts.Select, "select", false, "Confirm each branch before submitting it.")
	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "Prompt for PR title, body, and reviewers.")
	cmd.Flags().StringVarP(&opts.Reviewers, "reviewers", "r", "", "Comma-separated reviewers (org/team for teams).")

	return cmd
}
