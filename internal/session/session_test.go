package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoissue/autoissue/internal/config"
)

func TestNewID_IsUniqueAcrossCalls(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.NotEqual(t, a, b)
}

func TestMarkCompleted_RecordsIssueOnceButAddsEveryCost(t *testing.T) {
	s := New(NewID(), config.Config{})
	s.MarkCompleted(1, 2.5)
	s.MarkCompleted(1, 2.5)

	assert.Len(t, s.CompletedIssueNumbers, 1)
	assert.Equal(t, 5.0, s.TotalCostUsd)
}

func TestIsFinished(t *testing.T) {
	s := New(NewID(), config.Config{})
	s.MarkCompleted(1, 1.0)
	s.MarkFailed(2, 0.5)

	assert.True(t, s.IsFinished(1))
	assert.True(t, s.IsFinished(2))
	assert.False(t, s.IsFinished(3))
}

func TestSaveAndLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	id := NewID()
	s := New(id, config.Config{Project: config.ProjectConfig{Repo: "acme/widgets"}})
	s.MarkCompleted(1, 3.0)
	s.MarkFailed(2, 1.0)

	require.NoError(t, s.Save(dir))

	loaded, err := Load(dir, id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.SessionID)
	assert.Equal(t, []int{1}, loaded.CompletedIssueNumbers)
	assert.Equal(t, []int{2}, loaded.FailedIssueNumbers)
	assert.Equal(t, 4.0, loaded.TotalCostUsd)
	assert.Equal(t, "acme/widgets", loaded.ConfigSnapshot.Project.Repo)
}

func TestLoad_MissingSessionReturnsError(t *testing.T) {
	_, err := Load(t.TempDir(), "does-not-exist")
	assert.Error(t, err)
}
