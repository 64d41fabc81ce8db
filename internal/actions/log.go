package actions

import (
	"shunt.dev/shunt/internal/config"
	"shunt.dev/shunt/internal/engine"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
)

// LogOptions contains options for the log command
type LogOptions struct {
	ShowUntracked bool
}

// LogAction displays the stack forest
func LogAction(rctx *runtime.Context, opts LogOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog

	ignoredList, err := config.GetIgnoredBranches(rctx.RepoRoot)
	if err != nil {
		return err
	}
	ignored := make(map[string]bool, len(ignoredList))
	for _, name := range ignoredList {
		ignored[name] = true
	}

	getChildren := func(branchName string) []string {
		var children []string
		for _, child := range eng.GetChildren(branchName) {
			if !ignored[child] {
				children = append(children, child)
			}
		}
		return children
	}
	renderer := tui.NewStackTreeRenderer(eng.CurrentBranch(), eng.Trunk(), getChildren)

	builder := engine.NewStackBuilder(eng, ignoredList)
	for _, stack := range builder.AllStacksFromTrunk() {
		for _, branchName := range stack.BranchNames() {
			annotation := tui.BranchAnnotation{
				NeedsRestack: !eng.IsBranchFixed(branchName),
			}
			if prInfo, err := eng.GetPrInfo(branchName); err == nil && prInfo != nil && prInfo.Number != nil {
				annotation.PRNumber = prInfo.Number
				annotation.IsDraft = prInfo.IsDraft
			}
			renderer.SetAnnotation(branchName, annotation)
		}
	}

	for _, line := range renderer.RenderForest() {
		splog.Info("%s", line)
	}

	if opts.ShowUntracked {
		var untracked []string
		for _, branchName := range eng.AllBranchNames() {
			if !eng.IsTrunk(branchName) && !eng.IsBranchTracked(branchName) && !ignored[branchName] {
				untracked = append(untracked, branchName)
			}
		}
		if len(untracked) > 0 {
			splog.Newline()
			splog.Info("Untracked branches:")
			for _, branchName := range untracked {
				splog.Info("  %s", tui.ColorDim(branchName))
			}
		}
	}

	return nil
}
