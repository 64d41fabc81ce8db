package actions

import (
	"context"
	"fmt"

	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
	"shunt.dev/shunt/internal/utils"
)

// ModifyOptions contains options for the amend and commit commands
type ModifyOptions struct {
	// Staging options
	All    bool // Stage all changes before committing (-a)
	Update bool // Stage updates to tracked files only (-u)
	Patch  bool // Pick hunks to stage interactively (-p)

	// Commit options
	CreateCommit bool   // Create a new commit instead of amending
	Message      string // Commit message (-m)
	NoEdit       bool   // Keep the existing commit message when amending
}

// ModifyAction amends the current branch tip or appends a new commit, then
// restacks every branch above the current one
func ModifyAction(ctx context.Context, rctx *runtime.Context, opts ModifyOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog

	currentBranch, err := validateOnBranch(eng)
	if err != nil {
		return err
	}

	if eng.IsTrunk(currentBranch) {
		return shunterrors.NewPreconditionError("cannot modify trunk branch %s", currentBranch)
	}

	if err := checkNoRebaseInProgress(ctx); err != nil {
		return err
	}

	if err := stageChanges(opts); err != nil {
		return err
	}

	hasStagedChanges, err := git.HasStagedChanges()
	if err != nil {
		return fmt.Errorf("failed to check staged changes: %w", err)
	}
	if !hasStagedChanges {
		return shunterrors.NewPreconditionError(
			"no staged changes. Use -a to stage all changes, or stage changes manually with 'git add'")
	}

	if opts.Message == "" && !opts.NoEdit && !opts.CreateCommit && utils.IsInteractive() {
		splog.Tip("Your editor will open to edit the commit message. Pass --no-edit to keep it.")
	}

	commitOpts := git.CommitOptions{
		Amend:   !opts.CreateCommit,
		Message: opts.Message,
		NoEdit:  opts.NoEdit,
	}
	if err := git.CommitWithOptions(commitOpts); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if opts.CreateCommit {
		splog.Info("Created new commit in %s.", tui.ColorBranchName(currentBranch, true))
	} else {
		splog.Info("Amended commit in %s.", tui.ColorBranchName(currentBranch, true))
	}

	upstackBranches := eng.GetRelativeStack(currentBranch, engine.ScopeUpstackExclusive)
	if len(upstackBranches) > 0 {
		splog.Info("Restacking %d upstack branch(es)...", len(upstackBranches))
		if err := RestackBranches(ctx, upstackBranches, eng, splog, rctx.RepoRoot); err != nil {
			return err
		}
	}

	return nil
}

func stageChanges(opts ModifyOptions) error {
	switch {
	case opts.Patch:
		if err := git.StagePatch(); err != nil {
			return fmt.Errorf("failed to stage interactively: %w", err)
		}
	case opts.All:
		if err := git.StageAll(); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
	case opts.Update:
		if err := git.StageTracked(); err != nil {
			return fmt.Errorf("failed to stage tracked changes: %w", err)
		}
	}
	return nil
}
