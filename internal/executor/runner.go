package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/autoissue/autoissue/internal/agent"
	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/errs"
	"github.com/autoissue/autoissue/internal/ghclient"
	"github.com/autoissue/autoissue/internal/logging"
	"github.com/autoissue/autoissue/internal/scheduler"
)

// TaskResult is what a task runner reports back to the coordinator. It is
// the only channel through which a worker's outcome reaches shared state;
// the coordinator is the sole consumer and sole mutator of scheduler and
// session state.
type TaskResult struct {
	IssueNumber int
	Success     bool
	CostUsd     float64
	PRUrl       string
}

// taskRunnerDeps are the collaborators a single task runner needs, all
// already resolved by the coordinator before workers are launched.
type taskRunnerDeps struct {
	worktrees WorktreeProvider
	agent     AgentRunner
	prHost    PullRequestHost
	cfg       config.Config
	createPR  bool
	logger    *logging.Logger
}

// runTask executes one task end to end: acquire a worktree, invoke the
// agent, push and open a PR on success, and release the worktree on every
// exit path. It never panics or returns a coordinator-fatal error; any
// failure is folded into TaskResult.Success = false.
func runTask(ctx context.Context, deps taskRunnerDeps, task *scheduler.Task) TaskResult {
	ctx = logging.WithFields(ctx,
		zap.Int("issue_number", task.IssueNumber),
		zap.String("domain", string(task.Domain)),
	)
	log := deps.logger

	branch := BuildBranchName(task.IssueNumber, task.Title)

	handle, err := deps.worktrees.Create(ctx, branch)
	if err != nil {
		log.Error(ctx, "worktree creation failed", zap.Error(err))
		return TaskResult{IssueNumber: task.IssueNumber, Success: false}
	}
	defer func() {
		if cleanupErr := handle.Cleanup(); cleanupErr != nil {
			log.Warn(ctx, "worktree cleanup failed", zap.Error(cleanupErr))
		}
	}()

	runResult, err := deps.agent.Run(ctx, buildRunParams(deps.cfg, handle.Path, task))
	if err != nil {
		agentErr := errs.New(errs.KindAgent, "runner.runTask", err).WithContext("branch", branch)
		log.Error(ctx, "agent invocation failed", zap.Error(agentErr))
		return TaskResult{IssueNumber: task.IssueNumber, Success: false}
	}
	if !runResult.Success {
		log.Warn(ctx, "agent run did not succeed", zap.String("error_kind", string(runResult.ErrorKind)))
		return TaskResult{IssueNumber: task.IssueNumber, Success: false, CostUsd: runResult.CostUsd}
	}

	if !hasChanges(handle.Path) {
		// Nothing uncommitted; the agent may still have committed its work.
		revList := exec.CommandContext(ctx, "git", "rev-list", "--count", deps.cfg.Project.BaseBranch+"..HEAD")
		revList.Dir = handle.Path
		out, err := revList.Output()
		if err != nil || strings.TrimSpace(string(out)) == "0" {
			log.Warn(ctx, "agent produced no changes")
			return TaskResult{IssueNumber: task.IssueNumber, Success: false, CostUsd: runResult.CostUsd}
		}
	}

	if err := finalizeBranch(ctx, handle.Path, task); err != nil {
		log.Error(ctx, "committing agent changes failed", zap.Error(err))
		return TaskResult{IssueNumber: task.IssueNumber, Success: false, CostUsd: runResult.CostUsd}
	}

	result := TaskResult{IssueNumber: task.IssueNumber, Success: true, CostUsd: runResult.CostUsd}

	if !deps.createPR {
		return result
	}
	if err := pushBranch(ctx, handle.Path, branch); err != nil {
		log.Error(ctx, "pushing branch failed", zap.Error(err))
		return result
	}

	pr, err := deps.prHost.CreatePullRequest(ctx, ghclient.PullRequestParams{
		BaseBranch: deps.cfg.Project.BaseBranch,
		HeadBranch: branch,
		Title:      task.Title,
		Body:       fmt.Sprintf("Resolves #%d.", task.IssueNumber),
		Draft:      deps.cfg.Executor.PrDraft,
	})
	if err != nil {
		// Agent-successful, PR-failed (§7): the branch stays pushed for
		// manual recovery, and the task still counts as completed.
		prErr := errs.New(errs.KindPrCreation, "runner.runTask", err).WithContext("branch", branch)
		log.Error(ctx, "pull request creation failed, branch left pushed for manual recovery", zap.Error(prErr))
		return result
	}

	result.PRUrl = pr.URL
	return result
}

func buildRunParams(cfg config.Config, cwd string, task *scheduler.Task) agent.RunParams {
	return agent.RunParams{
		Cwd:          cwd,
		Model:        string(cfg.Agent.Model),
		SystemPrompt: systemPrompt,
		UserPrompt:   buildUserPrompt(task.IssueNumber, task.Title, task.Body),
		MaxBudgetUsd: cfg.Agent.MaxBudgetUsd,
		MaxTurns:     cfg.Agent.MaxTurns,
		Timeout:      time.Duration(cfg.Executor.TimeoutMinutes) * time.Minute,
	}
}

// hasChanges reports whether the worktree has anything to commit: staged,
// unstaged, or untracked files.
func hasChanges(worktreePath string) bool {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = worktreePath
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

// finalizeBranch commits whatever the agent left uncommitted. Changes the
// agent already committed on its own are left untouched.
func finalizeBranch(ctx context.Context, worktreePath string, task *scheduler.Task) error {
	if !hasChanges(worktreePath) {
		return nil
	}

	add := exec.CommandContext(ctx, "git", "add", "-A")
	add.Dir = worktreePath
	if out, err := add.CombinedOutput(); err != nil {
		return fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.CommandContext(ctx, "git", "commit", "-m", fmt.Sprintf("Resolve #%d: %s", task.IssueNumber, task.Title))
	commit.Dir = worktreePath
	if out, err := commit.CombinedOutput(); err != nil {
		return fmt.Errorf("git commit: %s: %w", out, err)
	}
	return nil
}

func pushBranch(ctx context.Context, worktreePath, branch string) error {
	cmd := exec.CommandContext(ctx, "git", "push", "-u", "origin", branch)
	cmd.Dir = worktreePath
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git push: %s: %w", out, err)
	}
	return nil
}
