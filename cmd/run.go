package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-align/pkg/aligner"
	"github.com/mattsolo1/grove-align/pkg/exec"
	"github.com/mattsolo1/grove-align/pkg/pairing"
	"github.com/mattsolo1/grove-align/pkg/state"
)

// validationFailedMsg is printed when the input files do not form valid pairs.
const validationFailedMsg = "Error running aligners, check your files."

var runLog = logrus.WithField("component", "run")

// runPlan is the fully resolved configuration for one invocation.
type runPlan struct {
	Run        aligner.RunConfig
	Binary     string
	Strategy   pairing.Strategy
	Validation pairing.ValidationMode
	DryRun     bool
}

func runAlign(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := loadAlignConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	plan, err := resolvePlan(opts, cfg, cmd.Flags().Changed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var executor exec.CommandExecutor
	if plan.DryRun {
		executor = &exec.DryRunExecutor{Out: out}
	} else {
		executor = &exec.RealCommandExecutor{Stdout: os.Stdout, Stderr: os.Stderr}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return executeRun(ctx, plan, executor, out)
}

// resolvePlan merges flags over the config file. changed reports whether a
// flag was set on the command line; defaults of unset flags never override
// config values.
func resolvePlan(opts *runOptions, cfg *AlignConfig, changed func(string) bool) (*runPlan, error) {
	mode := aligner.Mode(opts.Aligner)
	if !changed("aligner-to-use") && cfg.Aligner != "" {
		m, err := aligner.ParseMode(cfg.Aligner)
		if err != nil {
			return nil, fmt.Errorf("invalid 'aligner' in config: %w", err)
		}
		mode = m
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d (want 1 for kallisto or 2 for hisat2)", aligner.ErrUnknownMode, int(mode))
	}

	bootstrap := aligner.DefaultBootstrap
	switch {
	case changed("bootstrap"):
		bootstrap = opts.Bootstrap
	case cfg.Bootstrap != nil:
		bootstrap = *cfg.Bootstrap
	}
	if bootstrap < 0 {
		return nil, fmt.Errorf("bootstrap must not be negative: %d", bootstrap)
	}

	threads := opts.Threads
	if !changed("threads") {
		threads = cfg.Threads
	}
	if threads < 0 {
		return nil, fmt.Errorf("threads must not be negative: %d", threads)
	}

	strategy, err := pairing.ParseStrategy(firstNonEmpty(opts.Pairing, cfg.Pairing))
	if err != nil {
		return nil, err
	}
	validation, err := pairing.ParseValidationMode(firstNonEmpty(opts.Validation, cfg.Validation))
	if err != nil {
		return nil, err
	}

	tool := cfg.Kallisto
	if mode == aligner.HISAT2 {
		tool = cfg.HISAT2
	}

	return &runPlan{
		Run: aligner.RunConfig{
			Mode:           mode,
			InputDir:       opts.InputDir,
			OutputDir:      opts.OutputDir,
			ReferenceIndex: opts.Reference,
			Bootstrap:      bootstrap,
			Threads:        threads,
			ExtraArgs:      tool.Args,
		},
		Binary:     tool.Binary,
		Strategy:   strategy,
		Validation: validation,
		DryRun:     opts.DryRun,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// executeRun creates the output directory, pairs the input files and runs
// the aligner over them. A validation failure is reported on out and is not
// an error. Failed aligner runs are, once every pair has been tried.
func executeRun(ctx context.Context, plan *runPlan, executor exec.CommandExecutor, out io.Writer) error {
	a, err := aligner.New(plan.Run.Mode, plan.Binary)
	if err != nil {
		return err
	}

	if !plan.DryRun {
		if err := ensureOutputDir(plan.Run.OutputDir); err != nil {
			return err
		}
		lock, err := state.AcquireLock(plan.Run.OutputDir)
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				runLog.WithError(err).Warn("Failed to remove lock file")
			}
		}()
	}

	discovery, err := pairing.Discover(plan.Run.InputDir, plan.Strategy, plan.Validation)
	if err != nil {
		return err
	}
	if discovery.Err != nil {
		runLog.WithError(discovery.Err).
			WithField("input_dir", plan.Run.InputDir).
			Debug("Input files failed validation")
		fmt.Fprintln(out, validationFailedMsg)
		fmt.Fprintf(out, "  %v\n", discovery.Err)
		return nil
	}

	d := aligner.NewDispatcher(a, plan.Run, executor, out)
	if err := d.Preflight(); err != nil {
		return err
	}

	manifest := state.NewManifest(plan.Run.Mode.String(), plan.Run.ReferenceIndex, plan.Run.InputDir)
	manifest.DryRun = plan.DryRun
	runLog.WithFields(logrus.Fields{
		"run_id":  manifest.RunID,
		"aligner": a.Name(),
		"samples": len(discovery.Pairs),
	}).Debug("Starting run")

	outcomes, runErr := d.Run(ctx, discovery.Pairs)
	manifest.Samples = sampleRecords(a, plan.Run, outcomes, plan.DryRun)
	manifest.FinishedAt = time.Now().UTC()

	printSummary(out, a, plan.Run, outcomes, plan.DryRun)

	if !plan.DryRun {
		if err := state.SaveManifest(plan.Run.OutputDir, manifest); err != nil {
			runLog.WithError(err).Warn("Failed to write run manifest")
		}
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted after %d of %d samples: %w", len(outcomes), len(discovery.Pairs), runErr)
	}
	if n := aligner.Failures(outcomes); n > 0 {
		return fmt.Errorf("%d of %d samples failed", n, len(outcomes))
	}
	return nil
}

// ensureOutputDir creates dir if it does not exist. The parent must exist.
// An existing directory is left as is.
func ensureOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat output directory: %w", err)
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	runLog.WithField("output_dir", dir).Debug("Created output directory")
	return nil
}

func sampleRecords(a aligner.Aligner, cfg aligner.RunConfig, outcomes []aligner.Outcome, dryRun bool) []state.SampleRecord {
	records := make([]state.SampleRecord, 0, len(outcomes))
	for _, o := range outcomes {
		rec := state.SampleRecord{
			Sample:  o.Pair.Sample,
			Command: o.Command.String(),
			Output:  a.OutputPath(o.Pair, cfg),
			Status:  state.StatusCompleted,
		}
		if dryRun {
			rec.Status = state.StatusPlanned
		}
		if o.Result != nil {
			rec.ExitCode = o.Result.ExitCode
			rec.DurationMs = o.Result.Duration.Milliseconds()
		}
		if o.Err != nil {
			rec.Status = state.StatusFailed
			rec.Error = o.Err.Error()
			if o.Result == nil {
				rec.ExitCode = -1
			}
		}
		records = append(records, rec)
	}
	return records
}
