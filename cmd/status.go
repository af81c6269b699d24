package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-align/pkg/state"
)

func newStatusCmd() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the result of the last run into an output directory",
		Long: `Read the run record (` + state.ManifestFile + `) left in an output directory
and print the status of every sample. Exits with an error when any sample failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := state.LoadManifest(outputDir)
			if err != nil {
				return err
			}
			printManifest(cmd.OutOrStdout(), m)
			if n := m.Failed(); n > 0 {
				return fmt.Errorf("%d of %d samples failed", n, len(m.Samples))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-files-directory", "o", "", "Output directory of a previous run")
	cmd.MarkFlagRequired("output-files-directory")

	return cmd
}

func printManifest(out io.Writer, m *state.Manifest) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if !isTerminal(out) {
		ok.DisableColor()
		bad.DisableColor()
	}

	fmt.Fprintf(out, "Run %s (%s, reference %s)\n", m.RunID, m.Aligner, m.Reference)
	fmt.Fprintf(out, "Started %s, finished %s\n",
		m.StartedAt.Format("2006-01-02 15:04:05 MST"), m.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	for _, s := range m.Samples {
		if s.Status == state.StatusFailed {
			fmt.Fprintf(out, "%s %s: exit code %d\n", bad.Sprint("✗"), s.Sample, s.ExitCode)
			continue
		}
		fmt.Fprintf(out, "%s %s -> %s\n", ok.Sprint("✓"), s.Sample, s.Output)
	}
}
