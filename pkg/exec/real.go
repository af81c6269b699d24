package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// stderrTailSize bounds how much of a tool's stderr is kept for error reports.
const stderrTailSize = 4096

// ExecError wraps an execution error with the command output
type ExecError struct {
	Err      error
	ExitCode int
	Output   string
}

func (e *ExecError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("exit code %d: %v", e.ExitCode, e.Err)
	}
	return fmt.Sprintf("exit code %d: %v: %s", e.ExitCode, e.Err, e.Output)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

// RealCommandExecutor implements CommandExecutor using the actual os/exec package.
// Tool output is streamed to Stdout and Stderr as it is produced; nil writers
// discard it.
type RealCommandExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// LookPath searches for an executable named file in the directories
// named by the PATH environment variable.
func (e *RealCommandExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Execute runs the command with the given name and arguments and blocks until
// it exits. Cancelling ctx kills the process.
func (e *RealCommandExecutor) Execute(ctx context.Context, name string, arg ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, arg...)

	tail := &tailBuffer{max: stderrTailSize}
	cmd.Stdout = e.Stdout
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(e.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Duration: time.Since(start),
		Stderr:   tail.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) && cmd.ProcessState == nil {
			// Never started (binary missing, permission denied).
			return nil, err
		}
		res.ExitCode = -1
		if cmd.ProcessState != nil {
			res.ExitCode = cmd.ProcessState.ExitCode()
		}
		return res, &ExecError{
			Err:      err,
			ExitCode: res.ExitCode,
			Output:   res.Stderr,
		}
	}
	return res, nil
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
