// Package actions implements the operations behind each CLI command,
// orchestrating the engine, git, and the review gateway.
package actions

import (
	"context"

	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
)

// validateOnBranch returns the current branch name or a precondition error
// when HEAD is detached
func validateOnBranch(eng engine.Engine) (string, error) {
	currentBranch := eng.CurrentBranch()
	if currentBranch == "" {
		return "", shunterrors.ErrNotOnBranch
	}
	return currentBranch, nil
}

// checkNoRebaseInProgress fails when a rebase is already underway
func checkNoRebaseInProgress(ctx context.Context) error {
	if git.IsRebaseInProgress(ctx) {
		return shunterrors.NewPreconditionError(
			"a rebase is in progress. Resolve it with 'shunt continue' or 'git rebase --abort' first")
	}
	return nil
}
