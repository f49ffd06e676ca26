// Package agent runs the external code-generation process a task runner
// dispatches work to. autoissue never talks to a model itself; it shells
// out to a CLI (by default "claude") the way the rest of this codebase
// shells out to git.
package agent

import (
	"context"
	"time"
)

// ErrorKind classifies why a run didn't succeed, for the executor's
// error-handling policy (§7).
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindCrashed   ErrorKind = "crashed"
	ErrorKindBudget    ErrorKind = "budget_exceeded"
	ErrorKindNoChanges ErrorKind = "no_changes"
)

// RunParams is everything a Runner needs to drive one agent invocation.
type RunParams struct {
	Cwd          string
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxBudgetUsd float64
	MaxTurns     int
	Timeout      time.Duration
}

// RunResult is what came back from one agent invocation.
type RunResult struct {
	Success   bool
	CostUsd   float64
	Duration  time.Duration
	SessionID string
	ErrorKind ErrorKind
}

// Runner drives one external agent process to completion against a
// prepared worktree.
type Runner interface {
	Run(ctx context.Context, params RunParams) (RunResult, error)
}
