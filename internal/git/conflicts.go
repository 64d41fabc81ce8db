package git

import (
	"context"
)

// GetUnmergedFiles returns the paths with unresolved merge conflicts
func GetUnmergedFiles(ctx context.Context) ([]string, error) {
	return RunGitCommandLines("diff", "--name-only", "--diff-filter=U")
}

// GetRebaseHead returns the commit being applied by an in-progress rebase,
// empty when none is recorded
func GetRebaseHead(ctx context.Context) (string, error) {
	out, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", "REBASE_HEAD")
	if err != nil {
		return "", nil
	}
	return out, nil
}
