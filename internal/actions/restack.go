package actions

import (
	"context"
	"fmt"

	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
)

// RestackBranches rebases each branch onto its parent's current revision,
// in the order given. The caller is responsible for ordering the list
// parent-before-child. On conflict the remaining branches are persisted as
// continuation state and a RebaseConflictError is returned.
func RestackBranches(ctx context.Context, branchNames []string, eng engine.Engine, splog *tui.Splog, repoRoot string) error {
	for i, branchName := range branchNames {
		if eng.IsTrunk(branchName) {
			splog.Info("%s does not need to be restacked.", tui.ColorBranchName(branchName, false))
			continue
		}

		result, err := eng.RestackBranch(ctx, branchName)
		if err != nil {
			return fmt.Errorf("failed to restack %s: %w", branchName, err)
		}

		parent := eng.GetParent(branchName)
		if parent == "" {
			parent = eng.Trunk()
		}
		isCurrent := branchName == eng.CurrentBranch()

		switch result.Result {
		case engine.RestackDone:
			splog.Info("Restacked %s on %s.",
				tui.ColorBranchName(branchName, isCurrent),
				tui.ColorBranchName(parent, false))
		case engine.RestackUnneeded:
			splog.Info("%s does not need to be restacked on %s.",
				tui.ColorBranchName(branchName, isCurrent),
				tui.ColorBranchName(parent, false))
		case engine.RestackConflict:
			continuation := &config.ContinuationState{
				BranchesToRestack:     branchNames[i+1:],
				RebasedBranchBase:     result.RebasedBranchBase,
				CurrentBranchOverride: branchName,
			}
			if err := config.PersistContinuationState(repoRoot, continuation); err != nil {
				return fmt.Errorf("failed to persist continuation state: %w", err)
			}

			PrintConflictStatus(ctx, branchName, splog)

			return shunterrors.NewRebaseConflictError(branchName,
				fmt.Sprintf("hit conflict restacking %s on %s", branchName, parent))
		}
	}

	return nil
}

// RestackOptions contains options for the restack command
type RestackOptions struct {
	BranchName string
	Scope      engine.StackScope
}

// RestackAction restacks the requested slice of the current stack
func RestackAction(ctx context.Context, rctx *runtime.Context, opts RestackOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog

	if err := checkNoRebaseInProgress(ctx); err != nil {
		return err
	}

	branchName := opts.BranchName
	if branchName == "" {
		current, err := validateOnBranch(eng)
		if err != nil {
			return err
		}
		branchName = current
	}

	branches := eng.GetRelativeStack(branchName, opts.Scope)
	if len(branches) == 0 {
		splog.Info("No branches to restack.")
		return nil
	}

	return RestackBranches(ctx, branches, eng, splog, rctx.RepoRoot)
}
