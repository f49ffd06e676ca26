package ghclient

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"

	"github.com/autoissue/autoissue/internal/errs"
)

// Issue is the subset of a GitHub issue the classifier and scheduler need.
type Issue struct {
	Number int
	Title  string
	Body   string
	Labels []string
}

// FetchIssues lists open issues carrying label, paging through the full
// result set. An empty label fetches every open issue.
func (c *Client) FetchIssues(ctx context.Context, label string) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	if label != "" {
		opts.Labels = []string{label}
	}

	var all []Issue
	for {
		var page []*github.Issue
		resp, err := retryOperation(ctx, c.logger, c.retryCfg, func() (*github.Response, error) {
			p, r, err := c.gh.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
			page = p
			return r, err
		})
		if err != nil {
			return nil, errs.New(errs.KindIssueSource, "ghclient.FetchIssues", fmt.Errorf("listing issues: %w", err))
		}

		for _, iss := range page {
			if iss.IsPullRequest() {
				continue
			}
			all = append(all, toIssue(iss))
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// FetchIssuesByNumber resolves an explicit list of issue numbers, used when
// the caller passes --issues instead of --label.
func (c *Client) FetchIssuesByNumber(ctx context.Context, numbers []int) ([]Issue, error) {
	issues := make([]Issue, 0, len(numbers))
	for _, n := range numbers {
		var gi *github.Issue
		_, err := retryOperation(ctx, c.logger, c.retryCfg, func() (*github.Response, error) {
			i, r, err := c.gh.Issues.Get(ctx, c.owner, c.repo, n)
			gi = i
			return r, err
		})
		if err != nil {
			return nil, errs.New(errs.KindIssueSource, "ghclient.FetchIssuesByNumber", fmt.Errorf("fetching issue #%d: %w", n, err))
		}
		issues = append(issues, toIssue(gi))
	}
	return issues, nil
}

func toIssue(gi *github.Issue) Issue {
	labels := make([]string, 0, len(gi.Labels))
	for _, l := range gi.Labels {
		labels = append(labels, l.GetName())
	}
	return Issue{
		Number: gi.GetNumber(),
		Title:  gi.GetTitle(),
		Body:   gi.GetBody(),
		Labels: labels,
	}
}
