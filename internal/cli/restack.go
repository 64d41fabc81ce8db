package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"shunt.dev/shunt/internal/actions"
	"shunt.dev/shunt/internal/engine"
	"shunt.dev/shunt/internal/runtime"
)

// newRestackCmd creates the restack command
func newRestackCmd() *cobra.Command {
	var (
		branch    string
		upstack   bool
		downstack bool
	)

	cmd := &cobra.Command{
		Use:   "restack",
		Short: "Rebase each branch in the current stack onto its parent",
		Long: `Rebase each branch in the current stack onto its parent's current tip.
Branches whose parent has not moved are left untouched. On conflict the
restack stops; resolve the conflict and run 'shunt continue'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if upstack && downstack {
				return fmt.Errorf("only one of --upstack and --downstack can be specified")
			}

			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			scope := engine.ScopeFullStack
			if upstack {
				scope = engine.ScopeUpstackInclusive
			} else if downstack {
				scope = engine.ScopeDownstack
			}

			return actions.RestackAction(cmd.Context(), rctx, actions.RestackOptions{
				BranchName: branch,
				Scope:      scope,
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "Which branch to restack from. Defaults to the current branch.")
	cmd.Flags().BoolVar(&upstack, "upstack", false, "Only restack this branch and its descendants.")
	cmd.Flags().BoolVar(&downstack, "downstack", false, "Only restack this branch and its ancestors.")

	return cmd
}

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	var addAll bool

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume a restack that stopped on a rebase conflict",
		Long: `Resume the restack that stopped on a rebase conflict, after the
conflicts have been resolved and staged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer rctx.Release()

			return actions.ContinueAction(cmd.Context(), rctx, actions.ContinueOptions{
				AddAll: addAll,
			})
		},
	}

	cmd.Flags().BoolVarP(&addAll, "all", "a", false, "Stage all changes before continuing.")

	return cmd
}
