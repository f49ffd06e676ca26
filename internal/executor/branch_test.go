package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBranchName(t *testing.T) {
	got := BuildBranchName(17, "Add Login Form!")
	assert.Equal(t, "autoissue/issue-17-add-login-form", got)
}
