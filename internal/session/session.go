// Package session persists one executor run's progress to disk so a
// later invocation can resume without redoing finished work.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"

	"github.com/autoissue/autoissue/internal/config"
)

// State is the durable record of one session, checkpointed after every
// task completion.
type State struct {
	SessionID             string        `json:"sessionId"`
	StartedAt             time.Time     `json:"startedAt"`
	ConfigSnapshot        config.Config `json:"configSnapshot"`
	CompletedIssueNumbers []int         `json:"completedIssueNumbers"`
	FailedIssueNumbers    []int         `json:"failedIssueNumbers"`
	TotalCostUsd          float64       `json:"totalCostUsd"`
	LastCheckpointAt      time.Time     `json:"lastCheckpointAt"`
}

// NewID mints a session identifier unique enough to survive two
// concurrent autoissue invocations writing to the same state root without
// colliding: a Unix timestamp, this process's PID, and a UUID. The source
// assigns session IDs with no collision guard at all; baking the PID and a
// UUID into the name closes that gap without requiring a file lock.
func NewID() string {
	return fmt.Sprintf("%d-%d-%s", time.Now().Unix(), os.Getpid(), uuid.New().String())
}

// New starts a fresh State for sessionID against cfg.
func New(sessionID string, cfg config.Config) *State {
	now := time.Now()
	return &State{
		SessionID:        sessionID,
		StartedAt:        now,
		ConfigSnapshot:   cfg,
		LastCheckpointAt: now,
	}
}

// MarkCompleted records issueNumber as completed and adds cost to the
// running total.
func (s *State) MarkCompleted(issueNumber int, costUsd float64) {
	s.CompletedIssueNumbers = appendUnique(s.CompletedIssueNumbers, issueNumber)
	s.TotalCostUsd += costUsd
	s.LastCheckpointAt = time.Now()
}

// MarkFailed records issueNumber as failed and adds cost to the running
// total (a failed agent run can still have spent money).
func (s *State) MarkFailed(issueNumber int, costUsd float64) {
	s.FailedIssueNumbers = appendUnique(s.FailedIssueNumbers, issueNumber)
	s.TotalCostUsd += costUsd
	s.LastCheckpointAt = time.Now()
}

// IsFinished reports whether issueNumber already has a terminal outcome
// recorded in this session, the check the executor uses to skip
// already-finished work on resume.
func (s *State) IsFinished(issueNumber int) bool {
	return contains(s.CompletedIssueNumbers, issueNumber) || contains(s.FailedIssueNumbers, issueNumber)
}

func appendUnique(slice []int, n int) []int {
	if contains(slice, n) {
		return slice
	}
	return append(slice, n)
}

func contains(slice []int, n int) bool {
	for _, v := range slice {
		if v == n {
			return true
		}
	}
	return false
}

// Path returns the on-disk location of sessionID's state file under
// stateRoot.
func Path(stateRoot, sessionID string) string {
	return filepath.Join(stateRoot, "sessions", sessionID+".json")
}

// Save writes s to its session file atomically (write-to-temp + rename),
// creating the sessions directory if needed.
func (s *State) Save(stateRoot string) error {
	dir := filepath.Join(stateRoot, "sessions")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	path := Path(stateRoot, s.SessionID)
	if err := atomic.WriteFile(path, strings.NewReader(string(data))); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return os.Chmod(path, 0600)
}

// Load reads sessionID's state file from stateRoot.
func Load(stateRoot, sessionID string) (*State, error) {
	data, err := os.ReadFile(Path(stateRoot, sessionID))
	if err != nil {
		return nil, fmt.Errorf("reading session state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	return &s, nil
}
