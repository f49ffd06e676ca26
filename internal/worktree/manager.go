// Package worktree creates and tears down isolated git checkouts so
// concurrent agent runs cannot step on each other's working files.
package worktree

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	gitplumbing "github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/autoissue/autoissue/internal/errs"
	"github.com/autoissue/autoissue/internal/logging"
)

// Handle is a scoped worktree. Cleanup must run on every exit path from the
// caller that acquired it; it is safe to call more than once.
type Handle struct {
	BranchName string
	Path       string

	once    sync.Once
	cleanup func() error
}

// Cleanup releases the worktree and its branch. Only the first call does
// any work; subsequent calls return nil.
func (h *Handle) Cleanup() error {
	var err error
	h.once.Do(func() {
		err = h.cleanup()
	})
	return err
}

// NewHandle builds a Handle around an already-prepared path and an
// arbitrary cleanup function. Production code only ever gets a Handle from
// Manager.Create; this constructor exists so a fake WorktreeProvider in
// another package's tests can hand the executor a real Handle without a
// real git worktree behind it.
func NewHandle(branchName, path string, cleanup func() error) *Handle {
	if cleanup == nil {
		cleanup = func() error { return nil }
	}
	return &Handle{BranchName: branchName, Path: path, cleanup: cleanup}
}

// Manager creates worktrees under <repoRoot>/.worktrees, each forked from
// baseBranch.
type Manager struct {
	repoRoot   string
	baseBranch string
	logger     *logging.Logger

	mu          sync.Mutex
	existsCache map[string]bool
}

// New returns a Manager rooted at repoRoot, a git working copy whose
// worktrees fork from baseBranch.
func New(repoRoot, baseBranch string, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Manager{
		repoRoot:    repoRoot,
		baseBranch:  baseBranch,
		logger:      logger,
		existsCache: make(map[string]bool),
	}
}

func (m *Manager) worktreesDir() string {
	return filepath.Join(m.repoRoot, ".worktrees")
}

// Create sanitizes branchName, verifies baseBranch resolves in the
// repository, and creates a new worktree and branch. When `git worktree
// add` fails, its error is returned as is: Create removes neither the
// target directory nor a branch the command had already created.
func (m *Manager) Create(ctx context.Context, branchName string) (*Handle, error) {
	sanitized, err := SanitizeBranchName(branchName)
	if err != nil {
		return nil, errs.New(errs.KindWorktree, "worktree.Create", err)
	}

	if err := m.verifyBaseBranch(); err != nil {
		return nil, errs.New(errs.KindWorktree, "worktree.Create", err)
	}

	if err := os.MkdirAll(m.worktreesDir(), 0755); err != nil {
		return nil, errs.New(errs.KindWorktree, "worktree.Create", fmt.Errorf("creating worktrees dir: %w", err))
	}

	path := filepath.Join(m.worktreesDir(), sanitized)
	if _, statErr := os.Stat(path); statErr == nil {
		return nil, errs.New(errs.KindWorktree, "worktree.Create",
			fmt.Errorf("worktree path %s already exists (run `git worktree prune` if it is stale)", path))
	}

	cmd := exec.CommandContext(ctx, "git", "worktree", "add", "-b", sanitized, path, m.baseBranch)
	cmd.Dir = m.repoRoot
	if out, runErr := cmd.CombinedOutput(); runErr != nil {
		return nil, errs.New(errs.KindWorktree, "worktree.Create",
			fmt.Errorf("git worktree add: %s: %w", string(out), runErr))
	}

	m.mu.Lock()
	m.existsCache[path] = true
	m.mu.Unlock()

	handle := &Handle{
		BranchName: sanitized,
		Path:       path,
	}
	handle.cleanup = func() error {
		return m.remove(handle.Path, handle.BranchName)
	}
	return handle, nil
}

// verifyBaseBranch confirms m.baseBranch resolves to a real ref before a
// worktree is created from it, so a typo'd base branch fails fast instead
// of surfacing as an opaque `git worktree add` error.
func (m *Manager) verifyBaseBranch() error {
	repo, err := git.PlainOpen(m.repoRoot)
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", m.repoRoot, err)
	}

	refs := []gitplumbing.ReferenceName{
		gitplumbing.NewBranchReferenceName(m.baseBranch),
		gitplumbing.NewRemoteReferenceName("origin", m.baseBranch),
	}
	for _, ref := range refs {
		if _, err := repo.Reference(ref, true); err == nil {
			return nil
		}
	}
	return fmt.Errorf("base branch %q not found locally or on origin", m.baseBranch)
}

// remove tears down the worktree at path and deletes branch. Errors from
// `git branch -D` are logged, not returned, since the worktree removal
// having already succeeded is what matters to the caller.
func (m *Manager) remove(path, branch string) error {
	cmd := exec.Command("git", "worktree", "remove", "--force", path)
	cmd.Dir = m.repoRoot
	out, err := cmd.CombinedOutput()

	m.mu.Lock()
	delete(m.existsCache, path)
	m.mu.Unlock()

	if err != nil {
		return errs.New(errs.KindWorktree, "worktree.remove", fmt.Errorf("git worktree remove: %s: %w", string(out), err))
	}

	branchCmd := exec.Command("git", "branch", "-D", branch)
	branchCmd.Dir = m.repoRoot
	if branchOut, branchErr := branchCmd.CombinedOutput(); branchErr != nil {
		m.logger.Warn(context.Background(), "deleting worktree branch failed",
			zap.String("branch", branch), zap.String("output", string(branchOut)))
	}
	return nil
}

// Exists reports whether path currently exists on the filesystem, always
// re-checking it. It does not consult git's list of registered worktrees.
func (m *Manager) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExistsCached is like Exists but memoizes positive results for the
// lifetime of the Manager, avoiding repeated stats of the same worktree
// path across scheduling passes within one session. A negative result is
// never cached, since a path can come into existence later.
func (m *Manager) ExistsCached(path string) bool {
	m.mu.Lock()
	if m.existsCache[path] {
		m.mu.Unlock()
		return true
	}
	m.mu.Unlock()

	exists := m.Exists(path)
	if exists {
		m.mu.Lock()
		m.existsCache[path] = true
		m.mu.Unlock()
	}
	return exists
}
