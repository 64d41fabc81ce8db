package actions

import (
	"context"
	"fmt"

	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
)

// ContinueOptions are options for the continue command
type ContinueOptions struct {
	AddAll bool
}

// ContinueAction resumes a restack that stopped on a rebase conflict
func ContinueAction(ctx context.Context, rctx *runtime.Context, opts ContinueOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog
	repoRoot := rctx.RepoRoot

	if !git.IsRebaseInProgress(ctx) {
		// Drop any stale state from an externally aborted rebase
		_ = config.ClearContinuationState(repoRoot)
		return shunterrors.ErrRebaseNotInProgress
	}

	continuation, err := config.GetContinuationState(repoRoot)
	if err != nil {
		return fmt.Errorf("no continuation state found. Use 'git rebase --continue' directly: %w", err)
	}

	if opts.AddAll {
		if err := git.StageAll(); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
	}

	if continuation.CurrentBranchOverride != "" {
		eng.SetCurrentBranchOverride(continuation.CurrentBranchOverride)
	}

	result, err := eng.ContinueRebase(ctx, continuation.RebasedBranchBase)
	if err != nil {
		return fmt.Errorf("failed to continue rebase: %w", err)
	}

	if result.Result == engine.RestackConflict {
		if err := config.PersistContinuationState(repoRoot, continuation); err != nil {
			return fmt.Errorf("failed to persist continuation state: %w", err)
		}
		branchName := result.BranchName
		if branchName == "" {
			branchName = continuation.CurrentBranchOverride
		}
		PrintConflictStatus(ctx, branchName, splog)
		return shunterrors.NewRebaseConflictError(branchName, "rebase conflict is not yet resolved")
	}

	splog.Info("Resolved rebase conflict for %s.", tui.ColorBranchName(result.BranchName, true))

	if len(continuation.BranchesToRestack) > 0 {
		if err := RestackBranches(ctx, continuation.BranchesToRestack, eng, splog, repoRoot); err != nil {
			return err
		}
	}

	if err := config.ClearContinuationState(repoRoot); err != nil {
		splog.Debug("Failed to clear continuation state: %v", err)
	}

	return nil
}
