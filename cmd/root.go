package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-align/pkg/aligner"
)

// runOptions holds the values of the root command's flags.
type runOptions struct {
	Aligner    int
	InputDir   string
	Reference  string
	OutputDir  string
	Bootstrap  int
	Threads    int
	Pairing    string
	Validation string
	DryRun     bool
	ConfigPath string
	Verbose    bool
}

// NewRootCmd builds the align command with its subcommands.
func NewRootCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Run kallisto or HISAT2 over paired-end FASTQ files",
		Long: `Find paired-end FASTQ files (<sample>_1.fastq / <sample>_2.fastq) in a
directory and run the selected aligner once per sample, one after another.

Aligners:
  1  kallisto quant, one output directory per sample (default)
  2  hisat2, one <sample>.sam per sample

Examples:
  # Quantify every sample against a transcriptome index
  align -a 1 -i reads/ -r transcripts.idx -o quant/

  # Align to a genome index prefix with 8 threads
  align -a 2 -i reads/ -r grch38/genome -o sam/ -t 8

  # Show what would run
  align -i reads/ -r transcripts.idx -o quant/ --dry-run`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(opts.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlign(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to config file (default ./"+DefaultConfigFile+" if present)")

	f := cmd.Flags()
	f.IntVarP(&opts.Aligner, "aligner-to-use", "a", 1, "1: Uses Kallisto; 2: Uses HISAT2")
	f.StringVarP(&opts.InputDir, "input-files-directory", "i", "", "Path to directory containing FASTQ files")
	f.StringVarP(&opts.Reference, "reference-index", "r", "", "Path of indexed reference.\n"+
		"kallisto: the indexed reference transcriptome (ends with .idx)\n"+
		"HISAT2: the indexed reference genome prefix")
	f.StringVarP(&opts.OutputDir, "output-files-directory", "o", "", "Directory which will contain the aligner output (created if missing)")
	f.IntVarP(&opts.Bootstrap, "bootstrap", "b", aligner.DefaultBootstrap, "Number of kallisto bootstrap samples (0 disables bootstrapping)")
	f.IntVarP(&opts.Threads, "threads", "t", 0, "Threads passed to the aligner (0 leaves the tool default)")
	f.StringVar(&opts.Pairing, "pairing", "", "How to pair files: suffix (sorted _1/_2 lists) or name (parse sample names)")
	f.StringVar(&opts.Validation, "validation", "", "Suffix check for suffix pairing: strict (all pairs) or lenient (any pair)")
	f.BoolVar(&opts.DryRun, "dry-run", false, "Print the aligner commands without running them")

	cmd.MarkFlagRequired("input-files-directory")
	cmd.MarkFlagRequired("reference-index")
	cmd.MarkFlagRequired("output-files-directory")

	cmd.AddCommand(newPairsCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
