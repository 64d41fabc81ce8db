package actions

import (
	"context"
	"fmt"

	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/tui"
)

// PrintConflictStatus displays conflict information and resume instructions
func PrintConflictStatus(ctx context.Context, branchName string, splog *tui.Splog) {
	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflict restacking %s", branchName)))
	splog.Newline()

	unmergedFiles, err := git.GetUnmergedFiles(ctx)
	if err == nil && len(unmergedFiles) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, file := range unmergedFiles {
			splog.Info("%s", tui.ColorRed(file))
		}
		splog.Newline()
	}

	rebaseHead, err := git.GetRebaseHead(ctx)
	if err == nil && rebaseHead != "" {
		if len(rebaseHead) > 7 {
			rebaseHead = rebaseHead[:7]
		}
		splog.Info("%s", tui.ColorYellow(fmt.Sprintf("You are here (resolving %s):", rebaseHead)))
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To fix and continue:"))
	splog.Info("(1) resolve the listed merge conflicts")
	splog.Info("(2) stage the resolutions with %s", tui.ColorCyan("git add"))
	splog.Info("(3) run %s to resume", tui.ColorCyan("shunt continue"))
	splog.Info("It's safe to cancel the ongoing rebase with %s.", tui.ColorCyan("git rebase --abort"))
}
