package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	c := Config{
		Project: ProjectConfig{Repo: "acme/widgets", Path: "/tmp/widgets"},
	}
	c.ApplyDefaults()
	return c
}

func TestValidate_Valid(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.Validate())
}

func TestValidate_RepoFormat(t *testing.T) {
	for _, repo := range []string{"no-slash", "a/b/c", "/missing-owner", "missing-name/"} {
		c := validConfig()
		c.Project.Repo = repo
		assert.Error(t, c.Validate(), "repo %q should be rejected", repo)
	}
}

func TestValidate_MaxParallelRange(t *testing.T) {
	for _, n := range []int{0, -1, 11} {
		c := validConfig()
		c.Executor.MaxParallel = n
		assert.Error(t, c.Validate())
	}
	for _, n := range []int{1, 5, 10} {
		c := validConfig()
		c.Executor.MaxParallel = n
		assert.NoError(t, c.Validate())
	}
}

func TestValidate_TimeoutMinutesRange(t *testing.T) {
	for _, n := range []int{0, 4, 121} {
		c := validConfig()
		c.Executor.TimeoutMinutes = n
		assert.Error(t, c.Validate())
	}
	for _, n := range []int{5, 60, 120} {
		c := validConfig()
		c.Executor.TimeoutMinutes = n
		assert.NoError(t, c.Validate())
	}
}

func TestValidate_ModelEnum(t *testing.T) {
	for _, m := range []Model{ModelOpus, ModelSonnet, ModelHaiku} {
		c := validConfig()
		c.Agent.Model = m
		assert.NoError(t, c.Validate())
	}
	c := validConfig()
	c.Agent.Model = "gpt4"
	assert.Error(t, c.Validate())
}

func TestValidate_MaxBudgetFloor(t *testing.T) {
	c := validConfig()
	c.Agent.MaxBudgetUsd = 0.001
	assert.Error(t, c.Validate())
	c.Agent.MaxBudgetUsd = 0.01
	assert.NoError(t, c.Validate())
}

func TestApplyDefaults_MaxTurnsByModel(t *testing.T) {
	c := validConfig()
	c.Agent.Model = ModelOpus
	c.Agent.MaxTurns = 0
	c.ApplyDefaults()
	assert.Equal(t, 5, c.Agent.MaxTurns)

	c = validConfig()
	c.Agent.Model = ModelHaiku
	c.Agent.MaxTurns = 0
	c.ApplyDefaults()
	assert.Equal(t, 12, c.Agent.MaxTurns)
}

func TestSecret_RedactedInString(t *testing.T) {
	s := Secret("super-secret-token")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "super-secret-token", s.Value())
	assert.True(t, s.IsSet())

	empty := Secret("")
	assert.Equal(t, "", empty.String())
	assert.False(t, empty.IsSet())
}
