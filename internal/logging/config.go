package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config controls the process-wide logger. It is deliberately smaller than
// a full observability stack: autoissue has no trace exporter, so there is
// no sampling, caller-skip, or stacktrace configuration to carry.
type Config struct {
	Level  zapcore.Level `koanf:"level"`
	Format string        `koanf:"format"` // "json" or "console"
}

// NewDefaultConfig returns info-level JSON logging, the right default for a
// process whose output is usually piped into a log aggregator rather than
// read on a terminal.
func NewDefaultConfig() Config {
	return Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
	}
}

// Validate rejects a Format other than "json" or "console".
func (c Config) Validate() error {
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Format)
	}
	return nil
}
