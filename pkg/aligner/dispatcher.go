package aligner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-align/pkg/exec"
	"github.com/mattsolo1/grove-align/pkg/pairing"
)

// Outcome records what happened to one sample pair.
type Outcome struct {
	Pair    pairing.SamplePair
	Command Command
	// Result is nil when the process could not be started.
	Result *exec.Result
	Err    error
}

// Failed reports whether the tool did not complete successfully.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Dispatcher runs an Aligner over a list of sample pairs.
type Dispatcher struct {
	Aligner  Aligner
	Config   RunConfig
	Executor exec.CommandExecutor
	// Out receives one "Running <tool> for: <sample>" line per pair.
	Out io.Writer
	Log *logrus.Entry
}

// NewDispatcher creates a dispatcher with progress lines written to out.
func NewDispatcher(a Aligner, cfg RunConfig, executor exec.CommandExecutor, out io.Writer) *Dispatcher {
	return &Dispatcher{
		Aligner:  a,
		Config:   cfg,
		Executor: executor,
		Out:      out,
		Log:      logrus.WithField("component", "aligner"),
	}
}

// Preflight checks that the aligner binary can be found.
func (d *Dispatcher) Preflight() error {
	path, err := d.Executor.LookPath(d.Aligner.Binary())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolNotFound, d.Aligner.Binary(), err)
	}
	d.Log.WithField("path", path).Debug("Found aligner binary")
	return nil
}

// Run invokes the aligner once per pair, in order, waiting for each process
// to exit before starting the next. A failing pair is recorded and the loop
// moves on. The returned error is non-nil only if ctx is cancelled, in which
// case the outcomes gathered so far are returned with it.
func (d *Dispatcher) Run(ctx context.Context, pairs []pairing.SamplePair) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(pairs))
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		cmd := d.Aligner.Command(pair, d.Config)
		if d.Out != nil {
			fmt.Fprintf(d.Out, "Running %s for: %s\n", d.Aligner.Name(), pair.Sample)
		}
		log := d.Log.WithFields(logrus.Fields{
			"sample":  pair.Sample,
			"command": cmd.String(),
		})
		log.Debug("Starting aligner")

		start := time.Now()
		res, err := d.Executor.Execute(ctx, cmd.Name, cmd.Args...)
		outcome := Outcome{Pair: pair, Command: cmd, Result: res, Err: err}
		outcomes = append(outcomes, outcome)

		fields := logrus.Fields{"duration_ms": time.Since(start).Milliseconds()}
		if res != nil {
			fields["exit_code"] = res.ExitCode
		}
		if err != nil {
			log.WithFields(fields).WithError(err).Warn("Aligner failed")
			continue
		}
		log.WithFields(fields).Debug("Aligner finished")
	}
	return outcomes, nil
}

// Failures counts the outcomes that did not succeed.
func Failures(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}
