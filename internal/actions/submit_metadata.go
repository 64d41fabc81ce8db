package actions

import (
	"fmt"
	"strings"

	"shunt.dev/shunt/internal/engine"
	"shunt.dev/shunt/internal/git"
	"shunt.dev/shunt/internal/tui"
	"shunt.dev/shunt/internal/utils"
)

// PRMetadata contains the fields gathered for a review request
type PRMetadata struct {
	Title         string
	Body          string
	IsDraft       bool
	Reviewers     []string
	TeamReviewers []string
}

// SubmitMetadataOptions controls how PR metadata is gathered
type SubmitMetadataOptions struct {
	Edit      bool   // Prompt for title and body even when stored values exist
	Draft     bool   // Requested draft status
	Publish   bool   // Requested published status
	Reviewers string // Comma-separated reviewer list from the flag
}

// PreparePRMetadata gathers title, body, reviewers, and draft status for a
// branch. Title and body are persisted to the metadata store as soon as
// they are obtained, so a failure later in the run does not lose them and
// a retry does not re-prompt.
func PreparePRMetadata(branchName string, opts SubmitMetadataOptions, eng engine.Engine, splog *tui.Splog) (*PRMetadata, error) {
	prInfo, _ := eng.GetPrInfo(branchName)

	metadata := &PRMetadata{}
	if prInfo != nil {
		metadata.Title = prInfo.Title
		metadata.Body = prInfo.Body
	}

	interactive := utils.IsInteractive()
	storedDraft := prInfo != nil && prInfo.IsDraft

	if metadata.Title == "" || opts.Edit {
		title, err := getPRTitle(branchName, metadata.Title, opts.Edit && interactive)
		if err != nil {
			return nil, err
		}
		metadata.Title = title
		persistMetadataField(branchName, eng, splog, &engine.PrInfo{Title: title, IsDraft: storedDraft})
	}

	if metadata.Body == "" || opts.Edit {
		body, err := getPRBody(branchName, metadata.Body, opts.Edit && interactive)
		if err != nil {
			return nil, err
		}
		metadata.Body = body
		persistMetadataField(branchName, eng, splog, &engine.PrInfo{Body: body, IsDraft: storedDraft})
	}

	switch {
	case opts.Draft:
		metadata.IsDraft = true
	case opts.Publish:
		metadata.IsDraft = false
	case prInfo != nil && prInfo.Number != nil:
		metadata.IsDraft = prInfo.IsDraft
	case interactive:
		isDraft, err := tui.PromptConfirm(fmt.Sprintf("Create %s as draft?", branchName), true)
		if err != nil {
			return nil, err
		}
		metadata.IsDraft = isDraft
	default:
		// New PRs default to draft so nothing is published by accident
		metadata.IsDraft = true
	}

	if opts.Reviewers != "" {
		metadata.Reviewers, metadata.TeamReviewers = ParseReviewers(opts.Reviewers)
	} else if opts.Edit && interactive {
		reviewers, err := tui.PromptReviewers()
		if err != nil {
			return nil, err
		}
		metadata.Reviewers, metadata.TeamReviewers = splitTeamReviewers(reviewers)
	}

	return metadata, nil
}

func persistMetadataField(branchName string, eng engine.Engine, splog *tui.Splog, prInfo *engine.PrInfo) {
	if err := eng.UpsertPrInfo(branchName, prInfo); err != nil {
		splog.Debug("Failed to save PR metadata for %s: %v", branchName, err)
	}
}

// getPRTitle returns the stored title, the subject of the branch's oldest
// commit, or the branch name, optionally letting the user edit it
func getPRTitle(branchName string, existingTitle string, editInline bool) (string, error) {
	title := existingTitle
	if title == "" {
		subject, err := git.GetCommitSubject(branchName)
		if err != nil || subject == "" {
			title = branchName
		} else {
			title = subject
		}
	}

	if !editInline {
		return title, nil
	}

	return tui.PromptTextInput("Title", title)
}

// getPRBody infers a body from the branch's commit messages, optionally
// letting the user edit it
func getPRBody(branchName string, existingBody string, editInline bool) (string, error) {
	body := existingBody
	if body == "" {
		messages, err := git.GetCommitMessages(branchName)
		if err == nil && len(messages) > 0 {
			if len(messages) == 1 {
				// Single commit: use the message minus the subject line
				lines := strings.Split(messages[0], "\n")
				if len(lines) > 1 {
					body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
				}
			} else {
				body = strings.Join(messages, "\n\n")
			}
		}
	}

	if !editInline {
		return body, nil
	}

	return tui.PromptMultiline("Description", body)
}

// ParseReviewers splits a comma-separated reviewer list into user and team
// reviewers. Entries containing a slash are teams (org/team-name).
func ParseReviewers(reviewersFlag string) ([]string, []string) {
	var entries []string
	for _, entry := range strings.Split(reviewersFlag, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			entries = append(entries, entry)
		}
	}
	return splitTeamReviewers(entries)
}

func splitTeamReviewers(entries []string) ([]string, []string) {
	var reviewers, teamReviewers []string
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			parts := strings.Split(entry, "/")
			teamReviewers = append(teamReviewers, parts[len(parts)-1])
		} else {
			reviewers = append(reviewers, entry)
		}
	}
	return reviewers, teamReviewers
}
