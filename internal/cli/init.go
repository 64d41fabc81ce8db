package cli

import (
	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var (
		trunk string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize shunt in the current repository",
		Long:  `Initialize shunt in the current repository by recording which branch is the trunk.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContextForInit()
			if err != nil {
				return err
			}
			defer rctx.Release()

			return actions.InitAction(rctx, actions.InitOptions{
				Trunk: trunk,
				Reset: reset,
			})
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The name of the trunk branch.")
	cmd.Flags().BoolVar(&reset, "reset", false, "Pick a new trunk even if already initialized.")

	return cmd
}
