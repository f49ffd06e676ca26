package agent

import "context"

// StubRunner is the dry-run substitute for a real agent invocation: it
// reports immediate, free success without touching the worktree, so a
// dry-run exercises the rest of the executor's control flow untouched.
type StubRunner struct{}

// Run always succeeds with zero cost and zero duration.
func (StubRunner) Run(ctx context.Context, params RunParams) (RunResult, error) {
	return RunResult{Success: true}, nil
}
