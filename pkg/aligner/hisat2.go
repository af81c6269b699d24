package aligner

import (
	"path/filepath"
	"strconv"

	"github.com/mattsolo1/grove-align/pkg/pairing"
)

// samExtension is appended to the sample identifier to name HISAT2 output.
const samExtension = ".sam"

type hisat2 struct {
	binary string
}

func (h *hisat2) Name() string   { return "HISAT2" }
func (h *hisat2) Binary() string { return h.binary }

func (h *hisat2) OutputPath(pair pairing.SamplePair, cfg RunConfig) string {
	return filepath.Join(cfg.OutputDir, pair.Sample+samExtension)
}

func (h *hisat2) Command(pair pairing.SamplePair, cfg RunConfig) Command {
	args := []string{
		"-x", cfg.ReferenceIndex,
		"-1", filepath.Join(cfg.InputDir, pair.Mate1),
		"-2", filepath.Join(cfg.InputDir, pair.Mate2),
		"-S", h.OutputPath(pair, cfg),
	}
	if cfg.Threads > 0 {
		args = append(args, "-p", strconv.Itoa(cfg.Threads))
	}
	args = append(args, cfg.ExtraArgs...)
	return Command{Name: h.binary, Args: args}
}
