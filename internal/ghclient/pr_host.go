package ghclient

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
)

// PullRequestParams describes the PR a task runner wants opened once an
// agent run produces changes on a branch.
type PullRequestParams struct {
	BaseBranch string
	HeadBranch string
	Title      string
	Body       string
	Draft      bool
}

// PullRequest is what the host reports back after creating one.
type PullRequest struct {
	URL string
}

// CreatePullRequest opens a PR from HeadBranch against BaseBranch. A
// pushed branch with no PR is left for manual recovery by the caller; this
// method only reports the GitHub-side failure, it does not retry push.
func (c *Client) CreatePullRequest(ctx context.Context, params PullRequestParams) (PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(params.Title),
		Head:  github.String(params.HeadBranch),
		Base:  github.String(params.BaseBranch),
		Body:  github.String(params.Body),
		Draft: github.Bool(params.Draft),
	}

	var pr *github.PullRequest
	_, err := retryOperation(ctx, c.logger, c.retryCfg, func() (*github.Response, error) {
		p, r, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, newPR)
		pr = p
		return r, err
	})
	if err != nil {
		return PullRequest{}, fmt.Errorf("creating pull request: %w", err)
	}
	return PullRequest{URL: pr.GetHTMLURL()}, nil
}
