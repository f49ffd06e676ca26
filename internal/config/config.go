package config

import (
	"fmt"
	"regexp"

	"github.com/autoissue/autoissue/internal/errs"
)

// Config holds autoissue's complete, validated configuration.
type Config struct {
	Project  ProjectConfig  `koanf:"project"`
	Executor ExecutorConfig `koanf:"executor"`
	Agent    AgentConfig    `koanf:"agent"`

	MaxTotalBudgetUsd float64 `koanf:"maxtotalbudgetusd"`

	GitHubToken Secret `koanf:"githubtoken"`
	StateRoot   string `koanf:"stateroot"`
	AgentBinary string `koanf:"agentbinary"`
}

// ProjectConfig describes the target repository and checkout.
type ProjectConfig struct {
	Repo       string `koanf:"repo"` // owner/name
	Path       string `koanf:"path"` // absolute path to local checkout
	BaseBranch string `koanf:"basebranch"`
}

// ExecutorConfig controls the outer execution loop.
type ExecutorConfig struct {
	MaxParallel    int  `koanf:"maxparallel"`
	TimeoutMinutes int  `koanf:"timeoutminutes"`
	CreatePr       bool `koanf:"createpr"`
	PrDraft        bool `koanf:"prdraft"`
}

// Model is the set of agent models autoissue can dispatch to.
type Model string

const (
	ModelOpus   Model = "opus"
	ModelSonnet Model = "sonnet"
	ModelHaiku  Model = "haiku"
)

// AgentConfig controls the external code-generation agent.
type AgentConfig struct {
	Model        Model   `koanf:"model"`
	MaxBudgetUsd float64 `koanf:"maxbudgetusd"`
	MaxTurns     int     `koanf:"maxturns"` // 0 means "use the model's default"
}

var repoPattern = regexp.MustCompile(`^[^/]+/[^/]+$`)

// defaultMaxTurns maps each model to its default turn budget when MaxTurns
// is unset.
var defaultMaxTurns = map[Model]int{
	ModelOpus:   5,
	ModelSonnet: 8,
	ModelHaiku:  12,
}

// ApplyDefaults fills in every field the spec names a default for, without
// overwriting values the caller already set.
func (c *Config) ApplyDefaults() {
	if c.Project.BaseBranch == "" {
		c.Project.BaseBranch = "main"
	}
	if c.Executor.MaxParallel == 0 {
		c.Executor.MaxParallel = 3
	}
	if c.Executor.TimeoutMinutes == 0 {
		c.Executor.TimeoutMinutes = 30
	}
	if c.Agent.Model == "" {
		c.Agent.Model = ModelSonnet
	}
	if c.Agent.MaxBudgetUsd == 0 {
		c.Agent.MaxBudgetUsd = 5.0
	}
	if c.Agent.MaxTurns == 0 {
		c.Agent.MaxTurns = defaultMaxTurns[c.Agent.Model]
	}
	if c.MaxTotalBudgetUsd == 0 {
		c.MaxTotalBudgetUsd = 50.0
	}
	if c.AgentBinary == "" {
		c.AgentBinary = "claude"
	}
}

// Validate enforces every constraint spec.md §6 names. CreatePr defaults to
// true; that default is applied by the loader before Validate runs, not
// here, since a zero bool is indistinguishable from an explicit false.
func (c *Config) Validate() error {
	if !repoPattern.MatchString(c.Project.Repo) {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("project.repo must match owner/name, got %q", c.Project.Repo))
	}
	if c.Project.Path == "" {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("project.path must be set"))
	}
	if c.Executor.MaxParallel < 1 || c.Executor.MaxParallel > 10 {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("executor.maxParallel must be in [1,10], got %d", c.Executor.MaxParallel))
	}
	if c.Executor.TimeoutMinutes < 5 || c.Executor.TimeoutMinutes > 120 {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("executor.timeoutMinutes must be in [5,120], got %d", c.Executor.TimeoutMinutes))
	}
	switch c.Agent.Model {
	case ModelOpus, ModelSonnet, ModelHaiku:
	default:
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("agent.model must be one of opus,sonnet,haiku, got %q", c.Agent.Model))
	}
	if c.Agent.MaxBudgetUsd < 0.01 {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("agent.maxBudgetUsd must be >= 0.01, got %v", c.Agent.MaxBudgetUsd))
	}
	if c.MaxTotalBudgetUsd <= 0 {
		return errs.New(errs.KindConfig, "config.Validate", fmt.Errorf("maxTotalBudgetUsd must be positive, got %v", c.MaxTotalBudgetUsd))
	}
	return nil
}
