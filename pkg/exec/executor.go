package exec

import (
	"context"
	"time"
)

// CommandExecutor defines an interface for running external commands.
// This abstraction allows for easier testing by providing a mockable interface.
type CommandExecutor interface {
	// LookPath searches for an executable named file in the directories
	// named by the PATH environment variable.
	LookPath(file string) (string, error)

	// Execute runs the command with the given name and arguments.
	// It waits for the command to complete. A non-nil Result is returned
	// whenever the process was started, even if it exited with an error.
	Execute(ctx context.Context, name string, arg ...string) (*Result, error)
}

// Result describes a finished process.
type Result struct {
	ExitCode int
	Duration time.Duration
	// Stderr holds the last bytes the process wrote to stderr.
	Stderr string
}
