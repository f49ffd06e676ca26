package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes a tiny shell script that emits a stream-json "result"
// line so CLIRunner's parser is exercised the same way it would be against
// the real claude CLI.
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-agent")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestCLIRunner_ParsesCostAndSessionFromResultLine(t *testing.T) {
	bin := fakeBinary(t, `echo '{"type":"result","session_id":"sess-abc","cost_usd":1.25}'`)
	runner := NewCLIRunner(bin, nil)

	result, err := runner.Run(context.Background(), RunParams{
		Cwd:          t.TempDir(),
		Model:        "sonnet",
		MaxBudgetUsd: 5.0,
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1.25, result.CostUsd)
	assert.Equal(t, "sess-abc", result.SessionID)
}

func TestCLIRunner_OverBudgetIsNotSuccess(t *testing.T) {
	bin := fakeBinary(t, `echo '{"type":"result","session_id":"sess-over","cost_usd":9.0}'`)
	runner := NewCLIRunner(bin, nil)

	result, err := runner.Run(context.Background(), RunParams{
		Cwd:          t.TempDir(),
		MaxBudgetUsd: 5.0,
		Timeout:      5 * time.Second,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindBudget, result.ErrorKind)
}

func TestCLIRunner_NonZeroExitIsCrashed(t *testing.T) {
	bin := fakeBinary(t, `exit 1`)
	runner := NewCLIRunner(bin, nil)

	result, err := runner.Run(context.Background(), RunParams{Cwd: t.TempDir(), Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindCrashed, result.ErrorKind)
}

func TestCLIRunner_TimeoutIsReportedAsTimeoutKind(t *testing.T) {
	bin := fakeBinary(t, `sleep 2`)
	runner := NewCLIRunner(bin, nil)

	result, err := runner.Run(context.Background(), RunParams{Cwd: t.TempDir(), Timeout: 50 * time.Millisecond})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindTimeout, result.ErrorKind)
}

func TestStubRunner_AlwaysSucceedsFree(t *testing.T) {
	result, err := StubRunner{}.Run(context.Background(), RunParams{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.CostUsd)
	assert.Zero(t, result.Duration)
}
