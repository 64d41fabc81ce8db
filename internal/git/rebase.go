package git

import (
	"context"
	"fmt"
	"os"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase rebases a branch onto another branch.
// onto is the branch name to rebase onto (parent branch)
// from is the base revision (old parent branch revision)
func Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	// Save current branch/detached HEAD so it can be restored afterwards
	currentBranch, err := GetCurrentBranch()
	var currentRev string
	if err != nil {
		currentBranch = ""
		currentRev, _ = RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	}

	branchRev, err := RunGitCommandWithContext(ctx, "rev-parse", branchName)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get revision for %s: %w", branchName, err)
	}

	// Rebase the bare revision rather than the branch. This leaves HEAD
	// detached at the rebased commit and avoids "already used by worktree"
	// errors; the branch ref is moved explicitly below.
	_, err = RunGitCommandWithContext(ctx, "rebase", "--onto", onto, from, branchRev)
	if err != nil {
		if IsRebaseInProgress(ctx) {
			// Conflict: leave the worktree mid-rebase for the user to resolve
			return RebaseConflict, nil
		}
		// Failed for some other reason; clean up and restore
		_, _ = RunGitCommandWithContext(ctx, "rebase", "--abort")

		if currentBranch != "" {
			_ = CheckoutBranch(ctx, currentBranch)
		} else if currentRev != "" {
			_ = CheckoutDetached(ctx, currentRev)
		}
		return RebaseConflict, nil
	}

	newRev, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get new revision after rebase: %w", err)
	}

	_, err = RunGitCommandWithContext(ctx, "update-ref", "refs/heads/"+branchName, newRev)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to update branch reference %s: %w", branchName, err)
	}

	// Restore original state
	if currentBranch != "" {
		if err := CheckoutBranch(ctx, currentBranch); err != nil {
			_ = CheckoutDetached(ctx, currentBranch)
		}
	} else if currentRev != "" {
		_ = CheckoutDetached(ctx, currentRev)
	}

	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func IsRebaseInProgress(ctx context.Context) bool {
	// Check for .git/rebase-merge or .git/rebase-apply directories.
	// This is more reliable than REBASE_HEAD which can persist after rebase.
	gitDir, err := RunGitCommandWithContext(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}

	if _, err := os.Stat(gitDir + "/rebase-merge"); err == nil {
		return true
	}
	if _, err := os.Stat(gitDir + "/rebase-apply"); err == nil {
		return true
	}
	return false
}

// RebaseContinue continues an in-progress rebase
func RebaseContinue(ctx context.Context) (RebaseResult, error) {
	// core.editor=true accepts the generated commit message without
	// opening an editor
	_, err := RunGitCommandWithContext(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}

	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func RebaseAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}
