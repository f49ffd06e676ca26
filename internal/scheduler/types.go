package scheduler

import (
	"time"

	"github.com/autoissue/autoissue/internal/classifier"
)

// Status is a Task's position in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Task is one unit of scheduling work. IssueNumber is its stable identity;
// two tasks are the same task iff their IssueNumber matches.
type Task struct {
	IssueNumber int
	Title       string
	Body        string
	Labels      []string
	Domain      classifier.Domain
	Status      Status
	CompletedAt time.Time // zero value means unset
}

// Slot is one of a Scheduler's fixed execution positions. Occupied when
// Task is non-nil.
type Slot struct {
	Task      *Task
	StartedAt time.Time
}

func (s *Slot) occupied() bool {
	return s.Task != nil
}
