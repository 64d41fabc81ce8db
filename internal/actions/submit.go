package actions

import (
	"context"
	"fmt"
	"strings"

	"shunt.dev/shunt/internal/engine"
	shunterrors "shunt.dev/shunt/internal/errors"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/github"
	"shunt.dev/shunt/internal/runtime"
	"shunt.dev/shunt/internal/tui"
	"shunt.dev/shunt/internal/utils"
)

// SubmitOptions contains options for the submit command
type SubmitOptions struct {
	BranchName string
	Stack      bool // Submit descendants as well as ancestors
	Draft      bool
	Publish    bool
	UpdateOnly bool
	DryRun     bool
	Force      bool // Plain force push instead of force-with-lease
	Select     bool // Confirm each branch interactively
	Edit       bool // Prompt for title, body, and reviewers
	Reviewers  string
}

// submissionEntry is one branch's planned remote action
type submissionEntry struct {
	BranchName string
	Base       string
	Action     SubmitActionKind
	PRNumber   *int
	Metadata   *PRMetadata
}

// SubmitAction pushes branches and reconciles their review requests with
// the remote, one branch at a time in parent-before-child order
func SubmitAction(ctx context.Context, rctx *runtime.Context, opts SubmitOptions) error {
	eng := rctx.Engine
	splog := rctx.Splog

	if opts.Draft && opts.Publish {
		return shunterrors.NewPreconditionError("can't use both --draft and --publish in one command")
	}

	branches, err := getBranchesToSubmit(eng, opts, splog)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		splog.Info("No branches to submit.")
		return nil
	}

	if err := eng.PopulateRemoteShas(ctx); err != nil {
		splog.Debug("Failed to fetch remote branch tips: %v", err)
	}

	entries, err := planSubmission(branches, opts, eng, splog)
	if err != nil {
		return err
	}

	if opts.DryRun {
		splog.Info("Dry run complete.")
		return nil
	}
	if len(entries) == 0 {
		splog.Info("All PRs up to date.")
		return nil
	}

	client := rctx.GitHubClient
	if client == nil {
		return fmt.Errorf("no GitHub credentials available. Set GITHUB_TOKEN or log in with 'gh auth login'")
	}

	splog.Newline()
	splog.Info("Submitting...")

	remote := git.GetRemote()
	currentBranch := eng.CurrentBranch()

	var created, updated int
	for _, entry := range entries {
		if err := pushBranchIfNeeded(ctx, entry, opts, remote); err != nil {
			return err
		}

		var prURL string
		if entry.Action == SubmitCreate {
			prURL, err = createPullRequest(ctx, entry, eng, client)
			if err != nil {
				return err
			}
			created++
		} else {
			prURL, err = updatePullRequest(ctx, entry, opts, eng, client)
			if err != nil {
				return err
			}
			updated++
		}

		splog.Info("  ✓ %s → %s",
			tui.ColorBranchName(entry.BranchName, entry.BranchName == currentBranch), prURL)
	}

	splog.Newline()
	splog.Info("Done! %s", formatSubmitSummary(created, updated))
	return nil
}

// getBranchesToSubmit resolves the slice of the stack to submit. Trunk and
// branches without a resolvable parent are excluded here so the planner
// never sees them.
func getBranchesToSubmit(eng engine.Engine, opts SubmitOptions, splog *tui.Splog) ([]string, error) {
	branchName := opts.BranchName
	if branchName == "" {
		current, err := validateOnBranch(eng)
		if err != nil {
			return nil, err
		}
		branchName = current
	}

	if eng.IsTrunk(branchName) {
		return nil, shunterrors.ErrTrunkOperation
	}
	if !eng.IsBranchTracked(branchName) {
		return nil, shunterrors.NewPreconditionError(
			"branch %s is not tracked. Run 'shunt track %s' first", branchName, branchName)
	}

	scope := engine.ScopeDownstack
	if opts.Stack {
		scope = engine.ScopeFullStack
	}

	var branches []string
	for _, candidate := range eng.GetRelativeStack(branchName, scope) {
		if eng.GetParent(candidate) == "" {
			splog.Debug("Skipping %s: no resolvable parent", candidate)
			continue
		}
		branches = append(branches, candidate)
	}
	return branches, nil
}

// planSubmission classifies every branch and gathers metadata for the ones
// that need a remote action
func planSubmission(branches []string, opts SubmitOptions, eng engine.Engine, splog *tui.Splog) ([]submissionEntry, error) {
	currentBranch := eng.CurrentBranch()

	// A dry run reports the classification only: no confirmation prompts,
	// no metadata prompts, and nothing written to the metadata store
	interactive := opts.Select && !opts.DryRun && utils.IsInteractive()

	var entries []submissionEntry
	for _, branchName := range branches {
		parent := eng.GetParent(branchName)
		prInfo, _ := eng.GetPrInfo(branchName)

		hasPRNumber := prInfo != nil && prInfo.Number != nil
		contentMatches, err := eng.BranchMatchesRemote(branchName)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s with its remote: %w", branchName, err)
		}

		inputs := ClassifyInputs{
			HasPRNumber:          hasPRNumber,
			UpdateOnly:           opts.UpdateOnly,
			BaseMatchesParent:    hasPRNumber && prInfo.Base == parent,
			ContentMatchesRemote: contentMatches,
			RequestDraft:         opts.Draft,
			RequestPublish:       opts.Publish,
			StoredIsDraft:        prInfo != nil && prInfo.IsDraft,
		}
		action := ClassifyBranch(inputs)

		isCurrent := branchName == currentBranch
		if action == SubmitNoop {
			splog.Info("  ▸ %s %s", tui.ColorDim(branchName), tui.ColorDim("— no changes"))
			continue
		}

		if interactive {
			proceed, err := tui.PromptConfirm(
				fmt.Sprintf("Submit %s (%s)?", branchName, action), true)
			if err != nil {
				return nil, err
			}
			if !proceed {
				// Declined branches keep their stored metadata untouched
				splog.Info("  ▸ %s %s", tui.ColorDim(branchName), tui.ColorDim("— skipped"))
				continue
			}
		}

		entry := submissionEntry{
			BranchName: branchName,
			Base:       parent,
			Action:     action,
		}
		if hasPRNumber {
			entry.PRNumber = prInfo.Number
		}

		if !opts.DryRun && (action == SubmitCreate || opts.Edit) {
			metadata, err := PreparePRMetadata(branchName, SubmitMetadataOptions{
				Edit:      opts.Edit,
				Draft:     opts.Draft,
				Publish:   opts.Publish,
				Reviewers: opts.Reviewers,
			}, eng, splog)
			if err != nil {
				return nil, fmt.Errorf("failed to prepare metadata for %s: %w", branchName, err)
			}
			entry.Metadata = metadata
		}

		splog.Info("  ▸ %s → %s",
			tui.ColorBranchName(branchName, isCurrent),
			tui.ColorDim(action.String()))
		entries = append(entries, entry)
	}

	return entries, nil
}

// pushBranchIfNeeded pushes the branch when its remote content or base is
// out of date. Draft and publish transitions touch only the review
// request, not the branch.
func pushBranchIfNeeded(ctx context.Context, entry submissionEntry, opts SubmitOptions, remote string) error {
	switch entry.Action {
	case SubmitCreate, SubmitChange, SubmitRestack:
	default:
		return nil
	}

	if err := git.PushBranch(ctx, entry.BranchName, remote, opts.Force, !opts.Force); err != nil {
		return fmt.Errorf("failed to push %s: %w", entry.BranchName, err)
	}
	return nil
}

func createPullRequest(ctx context.Context, entry submissionEntry, eng engine.Engine, client github.Client) (string, error) {
	pr, err := client.CreatePullRequest(ctx, github.CreatePROptions{
		Title:         entry.Metadata.Title,
		Body:          entry.Metadata.Body,
		Head:          entry.BranchName,
		Base:          entry.Base,
		Draft:         entry.Metadata.IsDraft,
		Reviewers:     entry.Metadata.Reviewers,
		TeamReviewers: entry.Metadata.TeamReviewers,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create PR for %s: %w", entry.BranchName, err)
	}

	prNumber := pr.Number
	if err := eng.UpsertPrInfo(entry.BranchName, &engine.PrInfo{
		Number:  &prNumber,
		Title:   entry.Metadata.Title,
		Body:    entry.Metadata.Body,
		IsDraft: pr.Draft,
		State:   "OPEN",
		Base:    entry.Base,
		URL:     pr.HTMLURL,
	}); err != nil {
		return "", fmt.Errorf("failed to save PR info for %s: %w", entry.BranchName, err)
	}

	return pr.HTMLURL, nil
}

func updatePullRequest(ctx context.Context, entry submissionEntry, opts SubmitOptions, eng engine.Engine, client github.Client) (string, error) {
	updateOpts := github.UpdatePROptions{}
	newInfo := &engine.PrInfo{Number: entry.PRNumber}

	switch entry.Action {
	case SubmitRestack:
		base := entry.Base
		updateOpts.Base = &base
		newInfo.Base = base
	case SubmitDraft:
		isDraft := true
		updateOpts.Draft = &isDraft
	case SubmitPublish:
		isDraft := false
		updateOpts.Draft = &isDraft
	}

	if entry.Metadata != nil {
		updateOpts.Title = &entry.Metadata.Title
		updateOpts.Body = &entry.Metadata.Body
		newInfo.Title = entry.Metadata.Title
		newInfo.Body = entry.Metadata.Body
	}
	if opts.Draft || opts.Publish {
		isDraft := opts.Draft
		updateOpts.Draft = &isDraft
	}
	if updateOpts.Draft != nil {
		newInfo.IsDraft = *updateOpts.Draft
	} else if prInfo, _ := eng.GetPrInfo(entry.BranchName); prInfo != nil {
		newInfo.IsDraft = prInfo.IsDraft
	}

	if err := client.UpdatePullRequest(ctx, *entry.PRNumber, updateOpts); err != nil {
		return "", fmt.Errorf("failed to update PR for %s: %w", entry.BranchName, err)
	}

	if err := eng.UpsertPrInfo(entry.BranchName, newInfo); err != nil {
		return "", fmt.Errorf("failed to save PR info for %s: %w", entry.BranchName, err)
	}

	prURL := ""
	if prInfo, _ := eng.GetPrInfo(entry.BranchName); prInfo != nil {
		prURL = prInfo.URL
	}
	if prURL == "" {
		if pr, err := client.GetPullRequestByBranch(ctx, entry.BranchName); err == nil && pr != nil {
			prURL = pr.HTMLURL
		}
	}
	return prURL, nil
}

func formatSubmitSummary(created, updated int) string {
	var parts []string
	switch created {
	case 0:
	case 1:
		parts = append(parts, "1 PR created")
	default:
		parts = append(parts, fmt.Sprintf("%d PRs created", created))
	}
	switch updated {
	case 0:
	case 1:
		parts = append(parts, "1 PR updated")
	default:
		parts = append(parts, fmt.Sprintf("%d PRs updated", updated))
	}
	if len(parts) == 0 {
		return "No changes"
	}
	return strings.Join(parts, ", ")
}
