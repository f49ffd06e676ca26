package executor

import (
	"context"

	"github.com/autoissue/autoissue/internal/agent"
	"github.com/autoissue/autoissue/internal/ghclient"
	"github.com/autoissue/autoissue/internal/worktree"
)

// IssueSource fetches open issues for the executor's startup pass. Backed
// by *ghclient.Client in production, a fixture in tests.
type IssueSource interface {
	FetchIssues(ctx context.Context, label string) ([]ghclient.Issue, error)
	FetchIssuesByNumber(ctx context.Context, numbers []int) ([]ghclient.Issue, error)
}

// PullRequestHost opens a PR once a task runner's agent has produced
// changes worth reviewing.
type PullRequestHost interface {
	CreatePullRequest(ctx context.Context, params ghclient.PullRequestParams) (ghclient.PullRequest, error)
}

// WorktreeProvider acquires a scoped, isolated checkout for one task
// runner. Backed by *worktree.Manager in production.
type WorktreeProvider interface {
	Create(ctx context.Context, branchName string) (*worktree.Handle, error)
}

// AgentRunner drives the external code-generation process. Backed by
// *agent.CLIRunner in production, agent.StubRunner in dry-run mode.
type AgentRunner = agent.Runner
