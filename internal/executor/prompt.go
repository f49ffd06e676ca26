package executor

import "fmt"

const systemPrompt = `You are an autonomous coding agent working inside a git worktree checked
out from a single project branch. Make the changes described below directly
in the files under your current working directory. Commit as you go; do not
wait for confirmation, and do not ask clarifying questions.`

// buildUserPrompt turns an issue's title and body into the task
// description half of the prompt; systemPrompt carries the standing
// instructions every task shares.
func buildUserPrompt(issueNumber int, title, body string) string {
	return fmt.Sprintf("Issue #%d: %s\n\n%s", issueNumber, title, body)
}
