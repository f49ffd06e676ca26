package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Load loads configuration with the precedence spec.md §6 implies: env vars
// override the YAML file, which overrides hardcoded defaults. configPath
// empty means the default path (~/.config/autoissue/config.yaml).
//
// Environment variables use the AUTOISSUE_ prefix, are uppercased, and use
// underscore as both a word and section separator (e.g.
// AUTOISSUE_PROJECT_REPO -> project.repo, AUTOISSUE_EXECUTOR_MAXPARALLEL ->
// executor.maxparallel).
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultsMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "autoissue", "config.yaml")
	}

	if info, err := os.Stat(configPath); err == nil {
		if err := loadYAMLFile(k, configPath, info); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("AUTOISSUE_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ApplyDefaults() // fills agent.maxTurns, which depends on the resolved model

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadYAMLFile reads configPath (already stat'd as info) and loads it into
// k. Files larger than 1MB, by the size recorded in info, are rejected
// before reading.
func loadYAMLFile(k *koanf.Koanf, configPath string, info os.FileInfo) error {
	f, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	const maxConfigFileSize = 1 << 20 // 1MB
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file %s too large: %d bytes (max %d)", configPath, info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("parsing config file %s: %w", configPath, err)
	}
	return nil
}

// envTransform maps AUTOISSUE_SECTION_FIELD to section.field, splitting on
// the first underscore only so multi-word field names (maxparallel) stay
// intact.
func envTransform(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, "AUTOISSUE_"))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// defaultsMap seeds koanf with the hardcoded defaults spec.md §6 names,
// before the YAML file and environment variables are layered on top. Booleans
// live here (rather than in ApplyDefaults) so an explicit "false" in the
// file or environment can override a "true" default.
func defaultsMap() map[string]interface{} {
	return map[string]interface{}{
		"project.basebranch":      "main",
		"executor.maxparallel":    3,
		"executor.timeoutminutes": 30,
		"executor.createpr":       true,
		"executor.prdraft":        false,
		"agent.model":             string(ModelSonnet),
		"agent.maxbudgetusd":      5.0,
		"maxtotalbudgetusd":       50.0,
		"agentbinary":             "claude",
	}
}

// EnsureConfigDir creates the autoissue config directory if it doesn't
// exist, with 0700 permissions (owner read/write/execute only).
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "autoissue")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}
