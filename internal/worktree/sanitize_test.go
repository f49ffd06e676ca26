package worktree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeBranchName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"autoissue/issue-17-Add Login Form!", "autoissue/issue-17-add-login-form"},
		{"Fix_the--thing", "fix_the-thing"},
		{"---leading-and-trailing---", "leading-and-trailing"},
		{"UPPER/CASE", "upper/case"},
	}
	for _, tc := range cases {
		got, err := SanitizeBranchName(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestSanitizeBranchName_RejectsEmptyResult(t *testing.T) {
	_, err := SanitizeBranchName("!!!")
	assert.Error(t, err)
}

func TestSanitizeBranchName_TruncatesToMaxLength(t *testing.T) {
	long := strings.Repeat("a", 200)
	got, err := SanitizeBranchName(long)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), maxBranchNameLength)
}
