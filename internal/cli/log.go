package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var showUntracked bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Display the stacks in the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			return actions.LogAction(rctx, actions.LogOptions{
				ShowUntracked: showUntracked,
			})
		},
	}

	cmd.Flags().BoolVarP(&showUntracked, "untracked", "u", false, "Also list untracked branches.")

	return cmd
}
