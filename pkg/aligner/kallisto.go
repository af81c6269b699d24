package aligner

import (
	"path/filepath"
	"strconv"

	"github.com/mattsolo1/grove-align/pkg/pairing"
)

type kallisto struct {
	binary string
}

func (k *kallisto) Name() string   { return "Kallisto" }
func (k *kallisto) Binary() string { return k.binary }

// OutputPath is a per-sample directory under the output directory.
func (k *kallisto) OutputPath(pair pairing.SamplePair, cfg RunConfig) string {
	return filepath.Join(cfg.OutputDir, pair.Sample)
}

func (k *kallisto) Command(pair pairing.SamplePair, cfg RunConfig) Command {
	args := []string{
		"quant",
		"-i", cfg.ReferenceIndex,
		"-o", k.OutputPath(pair, cfg),
		filepath.Join(cfg.InputDir, pair.Mate1),
		filepath.Join(cfg.InputDir, pair.Mate2),
		"-b", strconv.Itoa(cfg.Bootstrap),
	}
	if cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(cfg.Threads))
	}
	args = append(args, cfg.ExtraArgs...)
	return Command{Name: k.binary, Args: args}
}
