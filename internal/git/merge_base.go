package git

import (
	"fmt"
)

// GetMergeBase returns the merge base of two revisions
func GetMergeBase(rev1, rev2 string) (string, error) {
	output, err := RunGitCommand("merge-base", rev1, rev2)
	if err != nil {
		return "", fmt.Errorf("failed to get merge base of %s and %s: %w", rev1, rev2, err)
	}
	return output, nil
}

// IsAncestor reports whether ancestor is an ancestor of descendant
func IsAncestor(ancestor, descendant string) (bool, error) {
	_, err := RunGitCommand("merge-base", "--is-ancestor", ancestor, descendant)
	if err == nil {
		return true, nil
	}
	// Exit code 1 means "not an ancestor"; other failures are real errors
	rev1Exists, _ := RunGitCommand("rev-parse", "--verify", ancestor)
	rev2Exists, _ := RunGitCommand("rev-parse", "--verify", descendant)
	if rev1Exists == "" || rev2Exists == "" {
		return false, fmt.Errorf("failed to check ancestry of %s and %s: %w", ancestor, descendant, err)
	}
	return false, nil
}
