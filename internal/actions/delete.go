package actions

import (
	"context"
	"fmt"

	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
)

// DeleteOptions contains options for the delete command
type DeleteOptions struct {
	BranchName string
	Force      bool
}

// DeleteAction deletes a branch and its metadata locally. Children are
// reparented onto the deleted branch's parent and restacked. Unless --force
// is passed, the branch must be merged into trunk or have a merged or
// closed PR.
func DeleteAction(ctx context.Context, rctx *runtime.Context, opts DeleteOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog

	branchName := opts.BranchName
	if branchName == "" {
		current, err := validateOnBranch(eng)
		if err != nil {
			return err
		}
		branchName = current
	}

	if eng.IsTrunk(branchName) {
		return shunterrors.ErrTrunkOperation
	}
	if !eng.IsBranchTracked(branchName) {
		return shunterrors.NewPreconditionError(
			"branch %s is not tracked; delete it with 'git branch -D %s'", branchName, branchName)
	}

	if !opts.Force {
		safe, err := safeToDelete(branchName, eng)
		if err != nil {
			return err
		}
		if !safe {
			return shunterrors.NewPreconditionError(
				"branch %s is not merged or closed; use --force to delete anyway", branchName)
		}
	}

	// The branch under HEAD can't be deleted, so step off onto its parent
	if branchName == eng.CurrentBranch() {
		parent := eng.GetParent(branchName)
		if parent == "" {
			parent = eng.Trunk()
		}
		if err := git.CheckoutBranch(ctx, parent); err != nil {
			return fmt.Errorf("failed to check out %s: %w", parent, err)
		}
		eng.SetCurrentBranchOverride(parent)
		splog.Info("Checked out %s.", tui.ColorBranchName(parent, true))
	}

	children := eng.GetChildren(branchName)
	if err := eng.DeleteBranch(ctx, branchName); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	splog.Info("Deleted %s.", tui.ColorBranchName(branchName, false))

	if len(children) == 0 {
		return nil
	}

	var toRestack []string
	for _, child := range children {
		splog.Info("Reparented %s onto %s.",
			tui.ColorBranchName(child, false),
			tui.ColorBranchName(eng.GetParent(child), false))
		toRestack = append(toRestack, eng.GetRelativeStack(child, engine.ScopeUpstackInclusive)...)
	}
	return RestackBranches(ctx, toRestack, eng, splog, rctx.RepoRoot)
}

// safeToDelete reports whether a branch's work has landed: its PR is merged
// or closed, or its tip is already reachable from trunk
func safeToDelete(branchName string, eng engine.Engine) (bool, error) {
	prInfo, err := eng.GetPrInfo(branchName)
	if err == nil && prInfo != nil {
		if prInfo.State == "MERGED" || prInfo.State == "CLOSED" {
			return true, nil
		}
	}

	branchRev, err := eng.GetRevision(branchName)
	if err != nil {
		return false, fmt.Errorf("failed to get branch revision: %w", err)
	}
	trunkRev, err := eng.GetRevision(eng.Trunk())
	if err != nil {
		return false, fmt.Errorf("failed to get trunk revision: %w", err)
	}
	return git.IsAncestor(branchRev, trunkRev)
}
