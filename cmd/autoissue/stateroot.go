package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// resolveStateRoot falls back to a per-user state directory when cfg's
// stateRoot field is unset, since stateRoot has no hardcoded default in
// the config package (unlike every other field in ApplyDefaults).
func resolveStateRoot(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "autoissue"), nil
}
