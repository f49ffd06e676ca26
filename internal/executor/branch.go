package executor

import (
	"fmt"

	"github.com/autoissue/autoissue/internal/worktree"
)

// BuildBranchName composes the branch name a task runner creates its
// worktree on: autoissue/issue-<N>-<slugified-title>. The worktree
// manager's own sanitizer handles the slugification; BuildBranchName just
// shapes the unsanitized input so issue number and title both survive into
// the final name.
func BuildBranchName(issueNumber int, title string) string {
	raw := fmt.Sprintf("autoissue/issue-%d-%s", issueNumber, title)
	sanitized, err := worktree.SanitizeBranchName(raw)
	if err != nil {
		// SanitizeBranchName only fails on an empty result, which can't
		// happen here since the numeric prefix is never empty.
		return fmt.Sprintf("autoissue/issue-%d", issueNumber)
	}
	return sanitized
}
