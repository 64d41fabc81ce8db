package git

import (
	"context"
	"fmt"
	"strings"
)

// GetRemote returns the remote name for the current branch, falling back
// to "origin"
func GetRemote() string {
	branch, err := RunGitCommand("symbolic-ref", "--short", "HEAD")
	if err == nil && branch != "" {
		remote, err := RunGitCommand("config", "--get", "branch."+branch+".remote")
		if err == nil && remote != "" {
			return remote
		}
	}
	return "origin"
}

// FetchRemoteShas fetches the current SHA of every branch on the remote via
// git ls-remote, without touching local remote-tracking refs. Returns a map
// of branch name -> SHA.
func FetchRemoteShas(ctx context.Context, remote string) (map[string]string, error) {
	output, err := RunGitCommandWithContext(ctx, "ls-remote", "--heads", remote)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote heads for %s: %w", remote, err)
	}

	shas := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Format: "<sha>\trefs/heads/<branch>"
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		refName := fields[1]
		if !strings.HasPrefix(refName, "refs/heads/") {
			continue
		}
		shas[strings.TrimPrefix(refName, "refs/heads/")] = fields[0]
	}

	return shas, nil
}
