package testsupport

import (
	"context"
	"fmt"

	"github.com/autoissue/autoissue/internal/agent"
	"github.com/autoissue/autoissue/internal/ghclient"
	"github.com/autoissue/autoissue/internal/worktree"
)

// FakeIssueSource serves a fixed, in-memory issue list instead of calling
// the GitHub API, mirroring the teacher's mock-client pattern in its
// orchestrator tests.
type FakeIssueSource struct {
	Issues []ghclient.Issue
	Err    error
}

func (f *FakeIssueSource) FetchIssues(ctx context.Context, label string) ([]ghclient.Issue, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if label == "" {
		return f.Issues, nil
	}
	var matched []ghclient.Issue
	for _, iss := range f.Issues {
		for _, l := range iss.Labels {
			if l == label {
				matched = append(matched, iss)
				break
			}
		}
	}
	return matched, nil
}

func (f *FakeIssueSource) FetchIssuesByNumber(ctx context.Context, numbers []int) ([]ghclient.Issue, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	byNumber := make(map[int]ghclient.Issue, len(f.Issues))
	for _, iss := range f.Issues {
		byNumber[iss.Number] = iss
	}
	var matched []ghclient.Issue
	for _, n := range numbers {
		if iss, ok := byNumber[n]; ok {
			matched = append(matched, iss)
		}
	}
	return matched, nil
}

// FakeWorktreeProvider hands out the directories Dir returns without
// running `git worktree`, and its handles' cleanup does nothing. The
// executor still runs git inside those directories, so they must be git
// checkouts.
type FakeWorktreeProvider struct {
	Dir          func() string
	CreateErr    error
	createdCount int
}

func (f *FakeWorktreeProvider) Create(ctx context.Context, branchName string) (*worktree.Handle, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.createdCount++
	path := f.Dir()
	return worktree.NewHandle(branchName, path, nil), nil
}

// FakePRHost records every PR it was asked to open.
type FakePRHost struct {
	Created []ghclient.PullRequestParams
	Err     error
}

func (f *FakePRHost) CreatePullRequest(ctx context.Context, params ghclient.PullRequestParams) (ghclient.PullRequest, error) {
	if f.Err != nil {
		return ghclient.PullRequest{}, f.Err
	}
	f.Created = append(f.Created, params)
	return ghclient.PullRequest{URL: fmt.Sprintf("https://example.com/pulls/%s", params.HeadBranch)}, nil
}

// FakeAgentRunner returns a scripted result for every call, in order; the
// last result repeats once exhausted.
type FakeAgentRunner struct {
	Results []agent.RunResult
	calls   int
}

func (f *FakeAgentRunner) Run(ctx context.Context, params agent.RunParams) (agent.RunResult, error) {
	if len(f.Results) == 0 {
		return agent.RunResult{Success: true}, nil
	}
	idx := f.calls
	if idx >= len(f.Results) {
		idx = len(f.Results) - 1
	}
	f.calls++
	return f.Results[idx], nil
}
