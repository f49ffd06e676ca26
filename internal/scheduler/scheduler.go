// Package scheduler implements admission control over a fixed set of
// execution slots, keyed on domain compatibility rather than priority.
// A Scheduler is single-owner: only the executor's coordinator goroutine
// may call its methods, which is why none of them take a lock (§5 of the
// design: workers communicate results back, they never touch this state).
package scheduler

import (
	"fmt"
	"time"

	"github.com/autoissue/autoissue/internal/classifier"
)

// Scheduler holds a queue of pending tasks, a fixed set of slots, and
// completed/failed counters for one executor session.
type Scheduler struct {
	maxSlots  int
	slots     []Slot
	queue     []*Task
	scheduled map[int]bool
	completed int
	failed    int
}

// New allocates a Scheduler with maxSlots execution slots. maxSlots must be
// in [1,10].
func New(maxSlots int) (*Scheduler, error) {
	if maxSlots < 1 || maxSlots > 10 {
		return nil, fmt.Errorf("scheduler: maxSlots must be in [1,10], got %d", maxSlots)
	}
	return &Scheduler{
		maxSlots:  maxSlots,
		slots:     make([]Slot, maxSlots),
		scheduled: make(map[int]bool),
	}, nil
}

// Enqueue appends task to the queue unless its issue number is already
// scheduled (queued, running, completed, or failed in this session).
func (s *Scheduler) Enqueue(task *Task) {
	if s.scheduled[task.IssueNumber] {
		return
	}
	task.Status = StatusPending
	s.scheduled[task.IssueNumber] = true
	s.queue = append(s.queue, task)
}

// FillSlots is the admission pass: it walks the queue in FIFO order,
// admitting any task compatible with everything currently running into a
// free slot. A task that isn't admitted keeps its queue position so a
// later, compatible task can still be considered. Returns the tasks newly
// moved into slots, in admission order.
func (s *Scheduler) FillSlots() []*Task {
	var admitted []*Task
	remaining := s.queue[:0:0]

	running := s.runningDomains()

	for _, task := range s.queue {
		slotIdx := s.freeSlot()
		if slotIdx == -1 {
			remaining = append(remaining, task)
			continue
		}
		if !classifier.AllCompatible(task.Domain, running) {
			remaining = append(remaining, task)
			continue
		}

		task.Status = StatusRunning
		s.slots[slotIdx] = Slot{Task: task, StartedAt: now()}
		running = append(running, task.Domain)
		admitted = append(admitted, task)
	}

	s.queue = remaining
	return admitted
}

// Complete frees the slot occupied by issueNumber's task and records its
// outcome. Returns false, making no change, if no occupied slot holds that
// issue number.
func (s *Scheduler) Complete(issueNumber int, success bool) bool {
	for i := range s.slots {
		if !s.slots[i].occupied() || s.slots[i].Task.IssueNumber != issueNumber {
			continue
		}
		task := s.slots[i].Task
		if success {
			task.Status = StatusCompleted
			task.CompletedAt = now()
			s.completed++
		} else {
			task.Status = StatusFailed
			s.failed++
		}
		s.slots[i] = Slot{}
		return true
	}
	return false
}

// HasWork reports whether there is anything left for the executor to do:
// tasks queued, or tasks running that will eventually free a slot.
func (s *Scheduler) HasWork() bool {
	if len(s.queue) > 0 {
		return true
	}
	for i := range s.slots {
		if s.slots[i].occupied() {
			return true
		}
	}
	return false
}

// IsComplete is the negation of HasWork.
func (s *Scheduler) IsComplete() bool {
	return !s.HasWork()
}

// StatusSnapshot is a point-in-time count of tasks in each state.
type StatusSnapshot struct {
	Running   int
	Queued    int
	Completed int
	Failed    int
	Total     int
}

// Status returns the current counts across every tracked task.
func (s *Scheduler) Status() StatusSnapshot {
	return StatusSnapshot{
		Running:   s.runningCount(),
		Queued:    len(s.queue),
		Completed: s.completed,
		Failed:    s.failed,
		Total:     len(s.scheduled),
	}
}

// Summary is an outcome summary suitable for an end-of-run report.
type Summary struct {
	Completed   int
	Failed      int
	SuccessRate float64 // percentage, 0-100; 0 when completed+failed == 0
}

// Summary reports how the session's finished work broke down.
func (s *Scheduler) Summary() Summary {
	denom := s.completed + s.failed
	rate := 0.0
	if denom > 0 {
		rate = float64(s.completed) / float64(denom) * 100
	}
	return Summary{Completed: s.completed, Failed: s.failed, SuccessRate: rate}
}

// BlockReasons explains, for each queued task, why it wasn't admitted on
// the last FillSlots pass: either a specific running task's domain
// conflicts with it, or there were no free slots at all.
func (s *Scheduler) BlockReasons() []string {
	running := s.runningTasks()
	reasons := make([]string, 0, len(s.queue))

	for _, task := range s.queue {
		if s.freeSlot() == -1 {
			reasons = append(reasons, "No free slots")
			continue
		}
		// A free slot exists, so after a FillSlots pass the only reason
		// this task is still queued is a domain conflict with something
		// running; without one, the task is admissible on the next pass.
		blocker := s.firstIncompatible(task, running)
		if blocker == nil {
			reasons = append(reasons, "Not blocked; awaiting the next admission pass")
			continue
		}
		reasons = append(reasons, blockReason(task, blocker))
	}
	return reasons
}

func blockReason(task *Task, blocker *Task) string {
	if task.Domain == blocker.Domain {
		return fmt.Sprintf("Blocked by %s task #%d (same domain)", blocker.Domain, blocker.IssueNumber)
	}
	return fmt.Sprintf("Blocked by %s task #%d", blocker.Domain, blocker.IssueNumber)
}

func (s *Scheduler) firstIncompatible(task *Task, running []*Task) *Task {
	for _, r := range running {
		if !classifier.AreDomainsCompatible(task.Domain, r.Domain) {
			return r
		}
	}
	return nil
}

func (s *Scheduler) freeSlot() int {
	for i := range s.slots {
		if !s.slots[i].occupied() {
			return i
		}
	}
	return -1
}

func (s *Scheduler) runningCount() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].occupied() {
			n++
		}
	}
	return n
}

func (s *Scheduler) runningDomains() []classifier.Domain {
	domains := make([]classifier.Domain, 0, s.maxSlots)
	for i := range s.slots {
		if s.slots[i].occupied() {
			domains = append(domains, s.slots[i].Task.Domain)
		}
	}
	return domains
}

func (s *Scheduler) runningTasks() []*Task {
	tasks := make([]*Task, 0, s.maxSlots)
	for i := range s.slots {
		if s.slots[i].occupied() {
			tasks = append(tasks, s.slots[i].Task)
		}
	}
	return tasks
}

// now is a seam so tests could inject a clock; autoissue has no need for
// one yet, so it's just time.Now.
func now() time.Time {
	return time.Now()
}
