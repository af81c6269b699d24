package exec

import (
	"context"
	"fmt"
	"io"
)

// DryRunExecutor prints each command to Out instead of running it.
type DryRunExecutor struct {
	Out io.Writer
}

// LookPath reports every binary as present; a dry run must work on machines
// without the tools installed.
func (d *DryRunExecutor) LookPath(file string) (string, error) {
	return file, nil
}

// Execute writes the quoted command line and returns a successful Result.
func (d *DryRunExecutor) Execute(ctx context.Context, name string, arg ...string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fmt.Fprintln(d.Out, QuoteCommand(name, arg...))
	return &Result{}, nil
}
