package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options controls the host logger
type Options struct {
	Level  string
	Debug  bool
	JSON   bool
	Output io.Writer
}

// NewLogger creates the host logger. Debug forces the debug level.
func NewLogger(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	if opts.Debug {
		level = hclog.Debug
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       "calc",
		Level:      level,
		Output:     output,
		JSONFormat: opts.JSON,
	})
}

// NewPluginLogger creates the logger handed to go-plugin clients.
// Provider process output is discarded unless debugging.
func NewPluginLogger(parent hclog.Logger, name string, debug bool) hclog.Logger {
	if !debug {
		return hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Level:  hclog.Error,
			Output: io.Discard,
		})
	}
	return parent.Named(name)
}

// ValidLevel reports whether hclog recognises the level name
func ValidLevel(level string) bool {
	return hclog.LevelFromString(level) != hclog.NoLevel
}
