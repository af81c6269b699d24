package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-align/pkg/aligner"
	"github.com/mattsolo1/grove-align/pkg/exec"
	"github.com/mattsolo1/grove-align/pkg/pairing"
	"github.com/mattsolo1/grove-align/pkg/state"
)

func setupInput(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("@r1\nACGT\n+\nIIII\n"), 0644))
	}
	return dir
}

func newPlan(mode aligner.Mode, in, out string) *runPlan {
	return &runPlan{
		Run: aligner.RunConfig{
			Mode:           mode,
			InputDir:       in,
			OutputDir:      out,
			ReferenceIndex: "ref",
			Bootstrap:      aligner.DefaultBootstrap,
		},
		Strategy:   pairing.BySuffix,
		Validation: pairing.Strict,
	}
}

func TestExecuteRunKallisto(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq", "B_1.fastq", "B_2.fastq")
	out := filepath.Join(t.TempDir(), "quant")
	mock := &exec.MockCommandExecutor{}
	var buf bytes.Buffer

	err := executeRun(context.Background(), newPlan(aligner.Kallisto, in, out), mock, &buf)
	require.NoError(t, err)

	require.Len(t, mock.Commands, 2)
	assert.Equal(t, "kallisto quant -i ref -o "+filepath.Join(out, "A")+" "+
		filepath.Join(in, "A_1.fastq")+" "+filepath.Join(in, "A_2.fastq")+" -b 100", mock.Commands[0])
	assert.Contains(t, mock.Commands[1], "-o "+filepath.Join(out, "B"))
	assert.Contains(t, buf.String(), "Running Kallisto for: A")
	assert.Contains(t, buf.String(), "Running Kallisto for: B")

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	m, err := state.LoadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, "kallisto", m.Aligner)
	require.Len(t, m.Samples, 2)
	assert.Equal(t, state.StatusCompleted, m.Samples[0].Status)

	_, err = os.Stat(filepath.Join(out, state.LockFile))
	assert.True(t, os.IsNotExist(err), "lock file should be released")
}

func TestExecuteRunHISAT2(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq", "B_1.fastq", "B_2.fastq")
	out := t.TempDir()
	mock := &exec.MockCommandExecutor{}

	err := executeRun(context.Background(), newPlan(aligner.HISAT2, in, out), mock, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, mock.Commands, 2)
	assert.True(t, strings.HasSuffix(mock.Commands[0], "-S "+filepath.Join(out, "A.sam")))
	assert.True(t, strings.HasSuffix(mock.Commands[1], "-S "+filepath.Join(out, "B.sam")))
}

func TestExecuteRunValidationFailure(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq", "B_1.fastq")
	out := filepath.Join(t.TempDir(), "out")
	mock := &exec.MockCommandExecutor{}
	var buf bytes.Buffer

	err := executeRun(context.Background(), newPlan(aligner.Kallisto, in, out), mock, &buf)
	require.NoError(t, err, "validation failure is reported, not returned")
	assert.Empty(t, mock.Commands)
	assert.Contains(t, buf.String(), validationFailedMsg)
	assert.Contains(t, buf.String(), "file counts differ")
}

func TestExecuteRunLenientValidation(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq", "B_1.fq", "B_2.fq")
	mock := &exec.MockCommandExecutor{}

	plan := newPlan(aligner.HISAT2, in, t.TempDir())
	require.NoError(t, executeRun(context.Background(), plan, mock, &bytes.Buffer{}))
	assert.Empty(t, mock.Commands, "strict mode rejects the .fq pair")

	plan.Validation = pairing.Lenient
	require.NoError(t, executeRun(context.Background(), plan, mock, &bytes.Buffer{}))
	assert.Len(t, mock.Commands, 2, "lenient mode runs every pair once one matches")
}

func TestExecuteRunPairByName(t *testing.T) {
	in := setupInput(t, "liver_1.fq.gz", "liver_2.fq.gz", "notes.txt")
	mock := &exec.MockCommandExecutor{}

	plan := newPlan(aligner.Kallisto, in, t.TempDir())
	plan.Strategy = pairing.ByName
	require.NoError(t, executeRun(context.Background(), plan, mock, &bytes.Buffer{}))
	require.Len(t, mock.Commands, 1)
	assert.Contains(t, mock.Commands[0], filepath.Join(plan.Run.OutputDir, "liver"))
}

func TestExecuteRunExistingOutputDirKeepsContents(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	out := t.TempDir()
	keep := filepath.Join(out, "previous.sam")
	require.NoError(t, os.WriteFile(keep, []byte("@HD"), 0644))

	err := executeRun(context.Background(), newPlan(aligner.HISAT2, in, out), &exec.MockCommandExecutor{}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "@HD", string(data))
}

func TestExecuteRunOutputParentMissing(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	out := filepath.Join(t.TempDir(), "missing", "out")
	mock := &exec.MockCommandExecutor{}

	err := executeRun(context.Background(), newPlan(aligner.HISAT2, in, out), mock, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output directory")
	assert.Empty(t, mock.Commands)
}

func TestExecuteRunToolFailure(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq", "B_1.fastq", "B_2.fastq")
	out := t.TempDir()
	mock := &exec.MockCommandExecutor{
		ExecuteFunc: func(name string, arg ...string) (*exec.Result, error) {
			if strings.Contains(strings.Join(arg, " "), "A_1.fastq") {
				return &exec.Result{ExitCode: 1, Stderr: "Error: could not open index\n"},
					&exec.ExecError{Err: errors.New("exit status 1"), ExitCode: 1}
			}
			return &exec.Result{}, nil
		},
	}
	var buf bytes.Buffer

	err := executeRun(context.Background(), newPlan(aligner.HISAT2, in, out), mock, &buf)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 samples failed", err.Error())
	assert.Len(t, mock.Commands, 2, "the second pair still runs")
	assert.Contains(t, buf.String(), "✗ A: exit code 1: Error: could not open index")
	assert.Contains(t, buf.String(), "✓ B")

	m, err := state.LoadManifest(out)
	require.NoError(t, err)
	assert.Equal(t, state.StatusFailed, m.Samples[0].Status)
	assert.Equal(t, 1, m.Samples[0].ExitCode)
	assert.Equal(t, state.StatusCompleted, m.Samples[1].Status)
}

func TestExecuteRunMissingTool(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	mock := &exec.MockCommandExecutor{
		LookPathFunc: func(file string) (string, error) {
			return "", errors.New("not found")
		},
	}

	err := executeRun(context.Background(), newPlan(aligner.Kallisto, in, t.TempDir()), mock, &bytes.Buffer{})
	assert.True(t, errors.Is(err, aligner.ErrToolNotFound))
	assert.Empty(t, mock.Commands)
}

func TestExecuteRunTrailingSeparators(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	out := t.TempDir()

	bare := &exec.MockCommandExecutor{}
	require.NoError(t, executeRun(context.Background(), newPlan(aligner.Kallisto, in, out), bare, &bytes.Buffer{}))

	slashed := &exec.MockCommandExecutor{}
	plan := newPlan(aligner.Kallisto, in+string(filepath.Separator), out+string(filepath.Separator))
	require.NoError(t, executeRun(context.Background(), plan, slashed, &bytes.Buffer{}))

	assert.Equal(t, bare.Commands, slashed.Commands)
}

func TestExecuteRunLockedOutput(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	out := t.TempDir()
	// The parent process stands in for another run that is still going.
	ppid := os.Getppid()
	require.NoError(t, os.WriteFile(filepath.Join(out, state.LockFile), []byte(strconv.Itoa(ppid)), 0644))

	mock := &exec.MockCommandExecutor{}
	err := executeRun(context.Background(), newPlan(aligner.Kallisto, in, out), mock, &bytes.Buffer{})
	assert.True(t, errors.Is(err, state.ErrLocked))
	assert.Empty(t, mock.Commands)
}

func TestExecuteRunDryRun(t *testing.T) {
	in := setupInput(t, "A_1.fastq", "A_2.fastq")
	out := filepath.Join(t.TempDir(), "not-created")
	var buf bytes.Buffer

	plan := newPlan(aligner.HISAT2, in, out)
	plan.DryRun = true
	require.NoError(t, executeRun(context.Background(), plan, &exec.DryRunExecutor{Out: &buf}, &buf))

	assert.Contains(t, buf.String(), "hisat2 -x ref -1 "+filepath.Join(in, "A_1.fastq"))
	assert.Contains(t, buf.String(), "Dry run: 1 HISAT2 command(s)")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}
