// Package testsupport holds fixtures shared across package tests: a real
// git repository factory for internal/worktree, and fake external
// collaborators for internal/executor.
package testsupport

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// NewGitRepo creates a real, non-bare git repository in a t.TempDir, with
// one commit on baseBranch, and returns its root path. internal/worktree's
// tests shell out to the same `git` binary the package itself uses, so a
// fixture built any other way (go-git alone, a hand-rolled .git directory)
// wouldn't exercise the same code paths.
func NewGitRepo(t *testing.T, baseBranch string) string {
	t.Helper()

	dir := t.TempDir()
	run(t, dir, "init", "--initial-branch="+baseBranch)
	run(t, dir, "config", "user.email", "test@example.com")
	run(t, dir, "config", "user.name", "test")

	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("autoissue test fixture\n"), 0644); err != nil {
		t.Fatalf("writing %s: %v", readme, err)
	}

	run(t, dir, "add", ".")
	run(t, dir, "commit", "-m", "initial commit")

	return dir
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %s: %v", args, out, err)
	}
}
