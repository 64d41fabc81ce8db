package actions

import (
	"fmt"
	"slices"

	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
	"shunt.dev/shunt/internal/utils"
)

// InitOptions contains options for the init command
type InitOptions struct {
	Trunk string
	Reset bool
}

// InitAction initializes the repository for stacking by recording the
// trunk branch
func InitAction(rctx *runtime.Context, opts InitOptions) error {
	repoRoot := rctx.RepoRoot

	if config.IsInitialized(repoRoot) && !opts.Reset {
		trunk, err := config.GetTrunk(repoRoot)
		if err != nil {
			return err
		}
		rctx.Splog.Info("Repository already initialized with trunk %s.", tui.ColorBranchName(trunk, false))
		rctx.Splog.Tip("Pass --reset to pick a different trunk.")
		return nil
	}

	trunk := opts.Trunk
	if trunk == "" {
		guess, err := guessTrunk()
		if err != nil {
			return err
		}
		trunk = guess
		if utils.IsInteractive() {
			answer, err := tui.PromptTextInput("Trunk branch name", guess)
			if err != nil {
				return err
			}
			trunk = answer
		}
	}

	exists, err := git.BranchExists(trunk)
	if err != nil {
		return fmt.Errorf("failed to check branch %s: %w", trunk, err)
	}
	if !exists {
		return fmt.Errorf("trunk branch %s does not exist", trunk)
	}

	if err := config.SetTrunk(repoRoot, trunk); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := rctx.Engine.Rebuild(trunk); err != nil {
		return fmt.Errorf("failed to rebuild branch state: %w", err)
	}

	rctx.Splog.Info("Initialized with trunk %s.", tui.ColorBranchName(trunk, false))
	return nil
}

// guessTrunk picks a likely trunk branch: main, then master, then the
// current branch
func guessTrunk() (string, error) {
	branches, err := git.GetAllBranchNames()
	if err != nil {
		return "", fmt.Errorf("failed to list branches: %w", err)
	}

	for _, candidate := range []string{"main", "master"} {
		if slices.Contains(branches, candidate) {
			return candidate, nil
		}
	}

	current, err := git.GetCurrentBranch()
	if err != nil {
		return "", fmt.Errorf("no branch to use as trunk: %w", err)
	}
	return current, nil
}
