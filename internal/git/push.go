package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	shunterrors "shunt.dev/shunt/internal/errors"
)

// PushBranch pushes a branch to remote.
// If forceWithLease is true, uses --force-with-lease (safer).
// If force is true, uses --force (overwrites remote unconditionally).
func PushBranch(ctx context.Context, branchName string, remote string, force bool, forceWithLease bool) error {
	args := []string{"push", "-u", remote}

	if force {
		args = append(args, "--force")
	} else if forceWithLease {
		args = append(args, "--force-with-lease")
	}

	args = append(args, branchName)

	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		var cmdErr *shunterrors.GitCommandError
		if forceWithLease && errors.As(err, &cmdErr) {
			combined := cmdErr.Stdout + cmdErr.Stderr
			if strings.Contains(combined, "stale info") || strings.Contains(combined, "[rejected]") {
				return fmt.Errorf("force-with-lease push of %s was rejected because the remote branch changed externally. Fetch and restack, or pass --force to overwrite: %w", branchName, err)
			}
		}
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}

	return nil
}
