// Package runtime provides the per-invocation context holding the engine,
// logger, repository lock, and review gateway used by commands.
package runtime

import (
	gocontext "context"
	"fmt"
	"path/filepath"

	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/engine"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/github"
	"shunt.dev/shunt/internal/lock"
	"shunt.dev/shunt/internal/tui"
)

// Context provides access to the engine and output for commands
type Context struct {
	Engine       engine.Engine
	Splog        *tui.Splog
	RepoRoot     string
	GitHubClient github.Client

	repoLock *lock.RepoLock
}

// GetContext builds the context for a command run against the current
// repository. It acquires the repository lock; Release must be called when
// the command finishes.
func GetContext() (*Context, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	if !config.IsInitialized(repoRoot) {
		return nil, fmt.Errorf("shunt not initialized. Run 'shunt init' first")
	}

	return newContext(repoRoot)
}

// GetContextForInit is GetContext without the initialization check, for
// the init command itself
func GetContextForInit() (*Context, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	return newContext(repoRoot)
}

func newContext(repoRoot string) (*Context, error) {
	repoLock, err := lock.Acquire(repoRoot)
	if err != nil {
		return nil, err
	}

	eng, err := engine.NewEngine(repoRoot)
	if err != nil {
		repoLock.Release()
		return nil, err
	}

	splog, err := tui.NewSplogWithLogFile(filepath.Join(repoRoot, ".git", "shunt.log"))
	if err != nil {
		splog = tui.NewSplog()
	}

	ctx := &Context{
		Engine:   eng,
		Splog:    splog,
		RepoRoot: repoRoot,
		repoLock: repoLock,
	}

	// GitHub client is optional; submit reports a useful error when absent
	if ghClient, err := github.NewRealClient(gocontext.Background()); err == nil {
		ctx.GitHubClient = ghClient
	}

	return ctx, nil
}

// Release frees the repository lock and closes the logger
func (c *Context) Release() {
	if c.repoLock != nil {
		c.repoLock.Release()
	}
	if c.Splog != nil {
		_ = c.Splog.Close()
	}
}
