package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// GetRevision returns the SHA of a branch
func GetRevision(branchName string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, branchName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch reference: %w", err)
	}

	return hash.String(), nil
}

// resolveRefHash resolves a ref (branch name, SHA, or ref path) to a hash
func resolveRefHash(repo *Repository, ref string) (plumbing.Hash, error) {
	// Try as a full reference name
	if r, err := repo.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}

	// Try as a local branch
	if r, err := repo.Reference(plumbing.ReferenceName("refs/heads/"+ref), true); err == nil {
		return r.Hash(), nil
	}

	// Try as a remote branch
	if r, err := repo.Reference(plumbing.ReferenceName("refs/remotes/origin/"+ref), true); err == nil {
		return r.Hash(), nil
	}

	// ResolveRevision handles SHAs, short SHAs, and expressions like HEAD~1
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %s: reference not found", ref)
}

// GetCommitMessages returns the full messages of the commits a branch adds
// on top of its stored parent revision, oldest first
func GetCommitMessages(branchName string) ([]string, error) {
	meta, err := ReadMetadataRef(branchName)
	if err != nil {
		return nil, err
	}

	rangeSpec := branchName
	if meta.ParentBranchRevision != nil {
		rangeSpec = *meta.ParentBranchRevision + ".." + branchName
	}

	// NUL-separate messages so multi-line bodies survive splitting
	output, err := RunGitCommand("log", "--reverse", "--format=%B%x00", rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit messages: %w", err)
	}

	var messages []string
	for _, raw := range strings.Split(output, "\x00") {
		message := strings.TrimSpace(raw)
		if message != "" {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

// GetCommitSubject returns the subject of the oldest commit a branch adds
// on top of its stored parent revision
func GetCommitSubject(branchName string) (string, error) {
	messages, err := GetCommitMessages(branchName)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}

	subject := messages[0]
	if idx := strings.Index(subject, "\n"); idx >= 0 {
		subject = subject[:idx]
	}
	return strings.TrimSpace(subject), nil
}
