package worktree

import (
	"fmt"
	"regexp"
	"strings"
)

const maxBranchNameLength = 100

var (
	invalidBranchChar = regexp.MustCompile(`[^a-z0-9\-_/]`)
	dashRun           = regexp.MustCompile(`-+`)
)

// SanitizeBranchName lowercases s, replaces every character that isn't
// alphanumeric, -, _, or / with a dash, collapses runs of dashes, and
// strips leading/trailing dashes. It rejects inputs that sanitize down to
// the empty string.
func SanitizeBranchName(s string) (string, error) {
	lowered := strings.ToLower(s)
	replaced := invalidBranchChar.ReplaceAllString(lowered, "-")
	collapsed := dashRun.ReplaceAllString(replaced, "-")
	trimmed := strings.Trim(collapsed, "-")

	if len(trimmed) > maxBranchNameLength {
		trimmed = strings.Trim(trimmed[:maxBranchNameLength], "-")
	}

	if trimmed == "" {
		return "", fmt.Errorf("branch name %q sanitizes to empty string", s)
	}
	return trimmed, nil
}
