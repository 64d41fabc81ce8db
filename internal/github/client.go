// Package github provides the review gateway: a narrow client for the
// GitHub pull request operations shunt needs.
package github

import (
	"context"
)

// PullRequestInfo contains information about a pull request. Kept as a
// plain struct to avoid coupling callers to the go-github library.
type PullRequestInfo struct {
	Number  int
	NodeID  string
	HTMLURL string
	Title   string
	Body    string
	State   string
	Draft   bool
	Base    string
	Head    string
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title         string
	Body          string
	Head          string
	Base          string
	Draft         bool
	Reviewers     []string
	TeamReviewers []string
}

// UpdatePROptions contains options for updating a pull request. Nil fields
// are left unchanged.
type UpdatePROptions struct {
	Title *string
	Body  *string
	Base  *string
	Draft *bool
}

// Client is the interface for GitHub API interactions
type Client interface {
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error)
	UpdatePullRequest(ctx context.Context, prNumber int, opts UpdatePROptions) error
	GetPullRequestByBranch(ctx context.Context, branchName string) (*PullRequestInfo, error)
	GetOwnerRepo() (owner, repo string)
}
