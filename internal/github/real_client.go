package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"shunt.dev/shunt/internal/git"
)

// RealClient talks to the GitHub API with go-github
type RealClient struct {
	client *github.Client
	token  string
	owner  string
	repo   string
}

// NewRealClient creates an authenticated client for the repository the
// origin remote points at
func NewRealClient(ctx context.Context) (*RealClient, error) {
	token, err := getGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("failed to get GitHub token: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	owner, repo, err := getRepoInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}

	return &RealClient{
		client: github.NewClient(tc),
		token:  token,
		owner:  owner,
		repo:   repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *RealClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// CreatePullRequest creates a new pull request
func (c *RealClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}

	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	createdPR, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	if len(opts.Reviewers) > 0 || len(opts.TeamReviewers) > 0 {
		_, _, _ = c.client.PullRequests.RequestReviewers(ctx, c.owner, c.repo, createdPR.GetNumber(), github.ReviewersRequest{
			Reviewers:     opts.Reviewers,
			TeamReviewers: opts.TeamReviewers,
		})
	}

	return toPullRequestInfo(createdPR), nil
}

// UpdatePullRequest updates an existing pull request. Draft transitions go
// through the GraphQL API because the REST edit endpoint cannot change
// draft status.
func (c *RealClient) UpdatePullRequest(ctx context.Context, prNumber int, opts UpdatePROptions) error {
	if opts.Draft != nil {
		pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, prNumber)
		if err == nil && pr.Draft != nil && *pr.Draft != *opts.Draft {
			if pr.NodeID == nil {
				return fmt.Errorf("PR %d does not have a node ID", prNumber)
			}
			if err := c.updatePRDraftStatus(ctx, *pr.NodeID, *opts.Draft); err != nil {
				return fmt.Errorf("failed to update draft status for PR %d: %w", prNumber, err)
			}
		}
	}

	if opts.Title == nil && opts.Body == nil && opts.Base == nil {
		return nil
	}

	update := &github.PullRequest{
		Title: opts.Title,
		Body:  opts.Body,
	}
	if opts.Base != nil {
		update.Base = &github.PullRequestBranch{Ref: opts.Base}
	}

	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, prNumber, update)
	if err != nil {
		return fmt.Errorf("failed to update pull request: %w", err)
	}

	return nil
}

// GetPullRequestByBranch returns the pull request whose head is the given
// branch, nil if none exists
func (c *RealClient) GetPullRequestByBranch(ctx context.Context, branchName string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branchName),
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	return toPullRequestInfo(prs[0]), nil
}

// updatePRDraftStatus flips a PR's draft flag via the GraphQL mutations
// convertPullRequestToDraft / markPullRequestReadyForReview
func (c *RealClient) updatePRDraftStatus(ctx context.Context, pullRequestID string, isDraft bool) error {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token})
	httpClient := oauth2.NewClient(ctx, ts)

	var mutation, mutationName string
	if isDraft {
		mutationName = "convertPullRequestToDraft"
		mutation = `mutation ConvertPullRequestToDraft($pullRequestId: ID!) {
			convertPullRequestToDraft(input: {pullRequestId: $pullRequestId}) {
				pullRequest {
					id
					isDraft
				}
			}
		}`
	} else {
		mutationName = "markPullRequestReadyForReview"
		mutation = `mutation MarkPullRequestReadyForReview($pullRequestId: ID!) {
			markPullRequestReadyForReview(input: {pullRequestId: $pullRequestId}) {
				pullRequest {
					id
					isDraft
				}
			}
		}`
	}

	requestBody := map[string]interface{}{
		"query": mutation,
		"variables": map[string]interface{}{
			"pullRequestId": pullRequestID,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.github.com/graphql", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create GraphQL request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute GraphQL request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var graphqlResponse struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &graphqlResponse); err != nil {
		return fmt.Errorf("failed to parse GraphQL response: %w", err)
	}

	if len(graphqlResponse.Errors) > 0 {
		messages := make([]string, len(graphqlResponse.Errors))
		for i, gqlErr := range graphqlResponse.Errors {
			messages[i] = gqlErr.Message
		}
		return fmt.Errorf("GraphQL %s mutation failed: %s", mutationName, strings.Join(messages, "; "))
	}

	return nil
}

func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	info := &PullRequestInfo{
		Number:  pr.GetNumber(),
		NodeID:  pr.GetNodeID(),
		HTMLURL: pr.GetHTMLURL(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		State:   strings.ToUpper(pr.GetState()),
		Draft:   pr.GetDraft(),
	}
	if pr.Base != nil {
		info.Base = pr.Base.GetRef()
	}
	if pr.Head != nil {
		info.Head = pr.Head.GetRef()
	}
	return info
}

// getGitHubToken gets a token from the environment or the gh CLI
func getGitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return "", fmt.Errorf("set GITHUB_TOKEN or log in with gh: %w", err)
	}

	token := strings.TrimSpace(string(output))
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}

// getRepoInfo parses owner and repo name out of the origin remote URL.
// Handles https://github.com/owner/repo.git and git@github.com:owner/repo.
func getRepoInfo(ctx context.Context) (string, string, error) {
	url, err := git.RunGitCommandWithContext(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return "", "", err
	}

	url = strings.TrimSuffix(url, ".git")
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid remote URL %q", url)
	}

	repoName := parts[len(parts)-1]
	var owner string
	if strings.Contains(url, "@") {
		sshParts := strings.Split(url, ":")
		if len(sshParts) < 2 {
			return "", "", fmt.Errorf("invalid SSH remote URL %q", url)
		}
		pathParts := strings.Split(sshParts[1], "/")
		if len(pathParts) < 2 {
			return "", "", fmt.Errorf("invalid SSH remote URL %q", url)
		}
		owner = pathParts[0]
	} else {
		owner = parts[len(parts)-2]
	}

	return owner, repoName, nil
}
