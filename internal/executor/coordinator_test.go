package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoissue/autoissue/internal/agent"
	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/ghclient"
	"github.com/autoissue/autoissue/internal/session"
	"github.com/autoissue/autoissue/internal/testsupport"
)

func writableWorktreeDir(t *testing.T) string {
	t.Helper()
	dir := testsupport.NewGitRepo(t, "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CHANGE.md"), []byte("agent change\n"), 0644))
	return dir
}

func baseConfig() config.Config {
	c := config.Config{
		Project: config.ProjectConfig{Repo: "acme/widgets", Path: "/tmp/widgets"},
	}
	c.ApplyDefaults()
	c.Executor.MaxParallel = 3
	c.Executor.CreatePr = false // skip git push/PR plumbing in these tests
	return c
}

func TestCoordinator_SingleTaskSucceeds(t *testing.T) {
	issueSource := &testsupport.FakeIssueSource{
		Issues: []ghclient.Issue{{Number: 1, Title: "[Backend] Add auth"}},
	}
	coord := &Coordinator{
		Config:      baseConfig(),
		StateRoot:   t.TempDir(),
		IssueSource: issueSource,
		Worktrees:   &testsupport.FakeWorktreeProvider{Dir: func() string { return writableWorktreeDir(t) }},
		Agent:       &testsupport.FakeAgentRunner{Results: []agent.RunResult{{Success: true, CostUsd: 1.5}}},
		PRHost:      &testsupport.FakePRHost{},
	}

	code, err := coord.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)
}

func TestCoordinator_FailedTaskReturnsExitSomeFailed(t *testing.T) {
	issueSource := &testsupport.FakeIssueSource{
		Issues: []ghclient.Issue{{Number: 1, Title: "[Backend] Add auth"}},
	}
	coord := &Coordinator{
		Config:      baseConfig(),
		StateRoot:   t.TempDir(),
		IssueSource: issueSource,
		Worktrees:   &testsupport.FakeWorktreeProvider{Dir: func() string { return writableWorktreeDir(t) }},
		Agent:       &testsupport.FakeAgentRunner{Results: []agent.RunResult{{Success: false, ErrorKind: agent.ErrorKindCrashed}}},
		PRHost:      &testsupport.FakePRHost{},
	}

	code, err := coord.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, ExitSomeFailed, code)
}

func TestCoordinator_BudgetExhaustedStopsAdmittingMoreWork(t *testing.T) {
	issueSource := &testsupport.FakeIssueSource{
		Issues: []ghclient.Issue{
			{Number: 1, Title: "[Backend] A"},
			{Number: 2, Title: "[Frontend] B"},
		},
	}
	cfg := baseConfig()
	cfg.Executor.MaxParallel = 1
	cfg.MaxTotalBudgetUsd = 10

	coord := &Coordinator{
		Config:      cfg,
		StateRoot:   t.TempDir(),
		IssueSource: issueSource,
		Worktrees:   &testsupport.FakeWorktreeProvider{Dir: func() string { return writableWorktreeDir(t) }},
		Agent:       &testsupport.FakeAgentRunner{Results: []agent.RunResult{{Success: true, CostUsd: 12}}},
		PRHost:      &testsupport.FakePRHost{},
	}

	code, err := coord.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, ExitBudgetExhausted, code)
}

func TestCoordinator_ResumeSkipsFinishedIssues(t *testing.T) {
	stateRoot := t.TempDir()
	id := session.NewID()
	prior := session.New(id, baseConfig())
	prior.MarkCompleted(1, 2.0)
	require.NoError(t, prior.Save(stateRoot))

	issueSource := &testsupport.FakeIssueSource{
		Issues: []ghclient.Issue{
			{Number: 1, Title: "[Backend] Already done"},
			{Number: 2, Title: "[Frontend] Still pending"},
		},
	}
	agentRunner := &testsupport.FakeAgentRunner{Results: []agent.RunResult{{Success: true, CostUsd: 1.0}}}

	coord := &Coordinator{
		Config:      baseConfig(),
		StateRoot:   stateRoot,
		IssueSource: issueSource,
		Worktrees:   &testsupport.FakeWorktreeProvider{Dir: func() string { return writableWorktreeDir(t) }},
		Agent:       agentRunner,
		PRHost:      &testsupport.FakePRHost{},
	}

	code, err := coord.Run(context.Background(), RunOptions{Resume: true, SessionID: id})
	require.NoError(t, err)
	assert.Equal(t, ExitOK, code)

	final, err := session.Load(stateRoot, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, final.CompletedIssueNumbers)
}
