package actions

import (
	"fmt"

	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
)

// TrackOptions contains options for the track command
type TrackOptions struct {
	BranchName string
	Parent     string
	Force      bool
}

// TrackAction starts tracking a branch with the given parent. The parent
// must itself be tracked (or be trunk) and, unless --force is passed, be an
// ancestor of the branch.
func TrackAction(rctx *runtime.Context, opts TrackOptions) error {
	eng := rctx.Engine
	branchName := opts.BranchName

	parent := opts.Parent
	if parent == "" {
		parent = eng.Trunk()
	}

	if !eng.IsTrunk(parent) && !eng.IsBranchTracked(parent) {
		return fmt.Errorf("parent branch %s must be tracked (or be trunk)", parent)
	}

	if !opts.Force {
		parentRev, err := git.GetRevision(parent)
		if err != nil {
			return fmt.Errorf("failed to get parent revision: %w", err)
		}
		branchRev, err := git.GetRevision(branchName)
		if err != nil {
			return fmt.Errorf("failed to get branch revision: %w", err)
		}
		isAnc, err := git.IsAncestor(parentRev, branchRev)
		if err != nil {
			return fmt.Errorf("failed to check ancestry: %w", err)
		}
		if !isAnc {
			return fmt.Errorf("parent branch %s is not an ancestor of %s (use --force to override)", parent, branchName)
		}
	}

	if err := eng.TrackBranch(branchName, parent); err != nil {
		return fmt.Errorf("failed to track branch: %w", err)
	}

	rctx.Splog.Info("Tracked %s with parent %s.",
		tui.ColorBranchName(branchName, branchName == eng.CurrentBranch()),
		tui.ColorBranchName(parent, false))
	return nil
}

// UntrackAction stops tracking a branch. Children of the branch are
// reparented onto its parent so their stacks stay intact.
func UntrackAction(rctx *runtime.Context, branchName string) error {
	eng := rctx.Engine

	children := eng.GetChildren(branchName)
	if err := eng.UntrackBranch(branchName); err != nil {
		return fmt.Errorf("failed to untrack branch: %w", err)
	}

	rctx.Splog.Info("Untracked %s.", tui.ColorBranchName(branchName, false))
	for _, child := range children {
		rctx.Splog.Info("Reparented %s onto %s.",
			tui.ColorBranchName(child, false),
			tui.ColorBranchName(eng.GetParent(child), false))
	}
	return nil
}
