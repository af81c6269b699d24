package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mattsolo1/grove-align/pkg/aligner"
)

// isTerminal reports whether w is a terminal we may style output for.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printSummary(out io.Writer, a aligner.Aligner, cfg aligner.RunConfig, outcomes []aligner.Outcome, dryRun bool) {
	if dryRun {
		fmt.Fprintf(out, "\nDry run: %d %s command(s), nothing executed.\n", len(outcomes), a.Name())
		return
	}

	styled := isTerminal(out)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if !styled {
		ok.DisableColor()
		bad.DisableColor()
	}

	title := fmt.Sprintf("%s summary: %d sample(s)", a.Name(), len(outcomes))
	if styled {
		title = lipgloss.NewStyle().Bold(true).Render(title)
	}
	fmt.Fprintf(out, "\n%s\n", title)

	for _, o := range outcomes {
		var dur time.Duration
		if o.Result != nil {
			dur = o.Result.Duration.Round(time.Millisecond)
		}
		if !o.Failed() {
			fmt.Fprintf(out, "%s %s -> %s (%s)\n", ok.Sprint("✓"), o.Pair.Sample, a.OutputPath(o.Pair, cfg), dur)
			continue
		}
		fmt.Fprintf(out, "%s %s: %s\n", bad.Sprint("✗"), o.Pair.Sample, failureReason(o))
	}

	if n := aligner.Failures(outcomes); n > 0 {
		fmt.Fprintf(out, "%s\n", bad.Sprintf("%d of %d samples failed", n, len(outcomes)))
	}
}

// failureReason is a one-line description of why a sample failed.
func failureReason(o aligner.Outcome) string {
	if o.Result == nil {
		return o.Err.Error()
	}
	reason := fmt.Sprintf("exit code %d", o.Result.ExitCode)
	if line := lastLine(o.Result.Stderr); line != "" {
		reason += ": " + line
	}
	return reason
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
