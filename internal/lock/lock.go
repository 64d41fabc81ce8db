// Package lock provides a process-wide repository lock. The working tree
// and index are a single mutable resource, so a second shunt invocation
// against the same repository fails fast instead of racing.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	shunterrors "shunt.dev/shunt/internal/errors"
)

const lockFileName = "shunt.lock"

// RepoLock is a held repository lock
type RepoLock struct {
	path string
}

// Acquire takes the repository lock for this process. It fails with
// ErrConcurrentExecution when another process already holds it.
func Acquire(repoRoot string) (*RepoLock, error) {
	path := filepath.Join(repoRoot, ".git", lockFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			if pid, ok := readLockPid(path); ok && !processAlive(pid) {
				// Holder died without releasing; reclaim
				_ = os.Remove(path)
				return Acquire(repoRoot)
			}
			return nil, shunterrors.ErrConcurrentExecution
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	return &RepoLock{path: path}, nil
}

// Release frees the lock. Safe to call more than once.
func (l *RepoLock) Release() {
	if l == nil || l.path == "" {
		return
	}
	_ = os.Remove(l.path)
	l.path = ""
}

func readLockPid(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// Signal 0 probes for existence without delivering a signal
	return proc.Signal(syscall.Signal(0)) == nil
}
