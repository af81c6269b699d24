package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-align/pkg/pairing"
)

func newPairsCmd() *cobra.Command {
	var (
		inputDir   string
		strategy   string
		validation string
	)

	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "List the sample pairs found in an input directory",
		Long: `List the mate pairs that a run would dispatch, without running anything.
Exits with an error when the files fail validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadAlignConfig(cmd.Flag("config").Value.String())
			if err != nil {
				return err
			}
			s, err := pairing.ParseStrategy(firstNonEmpty(strategy, cfg.Pairing))
			if err != nil {
				return err
			}
			mode, err := pairing.ParseValidationMode(firstNonEmpty(validation, cfg.Validation))
			if err != nil {
				return err
			}

			d, err := pairing.Discover(inputDir, s, mode)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range d.Pairs {
				fmt.Fprintf(out, "%s\t%s\t%s\n", p.Sample,
					filepath.Join(inputDir, p.Mate1), filepath.Join(inputDir, p.Mate2))
			}
			if d.Err != nil {
				return fmt.Errorf("%s: %w", validationFailedMsg, d.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input-files-directory", "i", "", "Path to directory containing FASTQ files")
	cmd.Flags().StringVar(&strategy, "pairing", "", "How to pair files: suffix or name")
	cmd.Flags().StringVar(&validation, "validation", "", "Suffix check: strict or lenient")
	cmd.MarkFlagRequired("input-files-directory")

	return cmd
}
