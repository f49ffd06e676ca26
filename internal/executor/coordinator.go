// Package executor is the outer control loop: it composes the classifier,
// scheduler, and worktree manager, invokes the external agent, creates
// PRs, tracks cumulative budget, and checkpoints session state on disk.
package executor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autoissue/autoissue/internal/classifier"
	"github.com/autoissue/autoissue/internal/config"
	"github.com/autoissue/autoissue/internal/errs"
	"github.com/autoissue/autoissue/internal/logging"
	"github.com/autoissue/autoissue/internal/scheduler"
	"github.com/autoissue/autoissue/internal/session"
)

// Exit codes, per the external contract: 0 clean, 1 some tasks failed,
// 2 budget exhausted with work remaining, 3 interrupted, 4 startup error.
const (
	ExitOK              = 0
	ExitSomeFailed      = 1
	ExitBudgetExhausted = 2
	ExitInterrupted     = 3
	ExitStartupError    = 4
)

// RunOptions selects the issues a Coordinator run targets and how it
// starts.
type RunOptions struct {
	Label        string // mutually exclusive with IssueNumbers
	IssueNumbers []int
	Resume       bool
	SessionID    string // required when Resume is true
	DryRun       bool
}

// Coordinator owns the outer loop. Its external collaborators are
// injected so tests can run the whole loop against fakes.
type Coordinator struct {
	Config      config.Config
	StateRoot   string
	IssueSource IssueSource
	Worktrees   WorktreeProvider
	Agent       AgentRunner
	PRHost      PullRequestHost
	Logger      *logging.Logger
}

// Run executes one session end to end and returns the process exit code.
func (c *Coordinator) Run(ctx context.Context, opts RunOptions) (int, error) {
	log := c.Logger
	if log == nil {
		log = logging.Nop()
	}

	state, sched, err := c.startup(ctx, opts)
	if err != nil {
		log.Error(ctx, "startup failed", zap.Error(err))
		return ExitStartupError, err
	}
	ctx = logging.WithFields(ctx, zap.String("session_id", state.SessionID))

	interrupted := false
	budgetExhausted := false

	// Buffered to the full slot count: a worker's send must never block on
	// the coordinator, including after an interrupt stops it from
	// receiving in the main loop, or inFlight.Wait() below would deadlock.
	results := make(chan TaskResult, c.Config.Executor.MaxParallel)
	var inFlight errgroup.Group

	deps := taskRunnerDeps{
		worktrees: c.Worktrees,
		agent:     c.Agent,
		prHost:    c.PRHost,
		cfg:       c.Config,
		createPR:  c.Config.Executor.CreatePr && !opts.DryRun,
		logger:    log,
	}

	for sched.HasWork() {
		select {
		case <-ctx.Done():
			interrupted = true
			log.Warn(ctx, "session interrupted",
				zap.Error(errs.New(errs.KindInterrupted, "Coordinator.Run", ctx.Err())))
		default:
		}

		if interrupted {
			break
		}

		if state.TotalCostUsd >= c.Config.MaxTotalBudgetUsd {
			budgetErr := errs.New(errs.KindBudgetExhausted, "Coordinator.Run",
				fmt.Errorf("cumulative cost $%.2f reached budget $%.2f", state.TotalCostUsd, c.Config.MaxTotalBudgetUsd))
			log.Warn(ctx, "cumulative budget exhausted, no new tasks will be admitted", zap.Error(budgetErr))
			budgetExhausted = true
			break
		}

		admitted := sched.FillSlots()
		for _, task := range admitted {
			t := task
			inFlight.Go(func() error {
				results <- runTask(ctx, deps, t)
				return nil
			})
		}

		if len(admitted) == 0 && sched.Status().Running == 0 {
			return ExitStartupError, fmt.Errorf("executor: queue non-empty but nothing running and nothing admitted")
		}

		result := <-results
		sched.Complete(result.IssueNumber, result.Success)
		if result.Success {
			state.MarkCompleted(result.IssueNumber, result.CostUsd)
		} else {
			state.MarkFailed(result.IssueNumber, result.CostUsd)
		}
		if err := state.Save(c.StateRoot); err != nil {
			log.Warn(ctx, "checkpointing session state failed", zap.Error(err))
		}
	}

	inFlight.Wait()
	// Drain any results that arrived after the loop stopped selecting them.
drain:
	for {
		select {
		case result := <-results:
			sched.Complete(result.IssueNumber, result.Success)
			if result.Success {
				state.MarkCompleted(result.IssueNumber, result.CostUsd)
			} else {
				state.MarkFailed(result.IssueNumber, result.CostUsd)
			}
		default:
			break drain
		}
	}

	if err := state.Save(c.StateRoot); err != nil {
		log.Error(ctx, "final session checkpoint failed", zap.Error(err))
	}

	summary := sched.Summary()
	log.Info(ctx, "session finished",
		zap.Int("completed", summary.Completed),
		zap.Int("failed", summary.Failed),
		zap.Float64("successRate", summary.SuccessRate),
		zap.Float64("totalCostUsd", state.TotalCostUsd))

	switch {
	case interrupted:
		return ExitInterrupted, nil
	case budgetExhausted && sched.HasWork():
		return ExitBudgetExhausted, nil
	case summary.Failed > 0:
		return ExitSomeFailed, nil
	default:
		return ExitOK, nil
	}
}

// startup resolves the session (fresh or resumed), fetches issues,
// classifies them, and builds a scheduler with everything not already
// finished enqueued.
func (c *Coordinator) startup(ctx context.Context, opts RunOptions) (*session.State, *scheduler.Scheduler, error) {
	var state *session.State
	if opts.Resume {
		if opts.SessionID == "" {
			return nil, nil, fmt.Errorf("executor: resume requires a session ID")
		}
		loaded, err := session.Load(c.StateRoot, opts.SessionID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading session %s: %w", opts.SessionID, err)
		}
		state = loaded
	} else {
		id := opts.SessionID
		if id == "" {
			id = session.NewID()
		}
		state = session.New(id, c.Config)
	}

	var issues []issueLike
	if len(opts.IssueNumbers) > 0 {
		fetched, err := c.IssueSource.FetchIssuesByNumber(ctx, opts.IssueNumbers)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching issues by number: %w", err)
		}
		for _, i := range fetched {
			issues = append(issues, issueLike{number: i.Number, title: i.Title, body: i.Body, labels: i.Labels})
		}
	} else {
		fetched, err := c.IssueSource.FetchIssues(ctx, opts.Label)
		if err != nil {
			return nil, nil, fmt.Errorf("fetching issues: %w", err)
		}
		for _, i := range fetched {
			issues = append(issues, issueLike{number: i.Number, title: i.Title, body: i.Body, labels: i.Labels})
		}
	}

	sched, err := scheduler.New(c.Config.Executor.MaxParallel)
	if err != nil {
		return nil, nil, fmt.Errorf("building scheduler: %w", err)
	}

	for _, issue := range issues {
		if state.IsFinished(issue.number) {
			continue
		}
		classification := classifier.Classify(classifier.Issue{
			Number: issue.number,
			Title:  issue.title,
			Body:   issue.body,
			Labels: issue.labels,
		})
		sched.Enqueue(&scheduler.Task{
			IssueNumber: issue.number,
			Title:       issue.title,
			Body:        issue.body,
			Labels:      issue.labels,
			Domain:      classification.Domain,
		})
	}

	return state, sched, nil
}

// issueLike decouples startup's classification loop from ghclient's Issue
// type so a future second issue source doesn't require a ghclient import
// here.
type issueLike struct {
	number int
	title  string
	body   string
	labels []string
}
