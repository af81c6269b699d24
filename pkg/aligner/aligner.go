// Package aligner builds the command lines for the supported external
// alignment tools and runs them one sample pair at a time.
package aligner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattsolo1/grove-align/pkg/exec"
	"github.com/mattsolo1/grove-align/pkg/pairing"
)

// Mode selects the external tool.
type Mode int

const (
	// Kallisto is the pseudo-alignment quantifier.
	Kallisto Mode = 1
	// HISAT2 is the splice-aware genome aligner.
	HISAT2 Mode = 2
)

// DefaultBootstrap is the number of kallisto bootstrap replicates used when
// neither the command line nor the config file sets one.
const DefaultBootstrap = 100

var (
	ErrUnknownMode  = errors.New("unknown aligner")
	ErrToolNotFound = errors.New("aligner binary not found")
)

func (m Mode) String() string {
	switch m {
	case Kallisto:
		return "kallisto"
	case HISAT2:
		return "hisat2"
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == Kallisto || m == HISAT2
}

// ParseMode accepts the numeric mode ("1", "2") or the tool name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "kallisto":
		return Kallisto, nil
	case "2", "hisat2":
		return HISAT2, nil
	}
	return 0, fmt.Errorf("%w: %q (want 1 for kallisto or 2 for hisat2)", ErrUnknownMode, s)
}

// RunConfig holds everything needed to build commands for one run. It is
// not modified once dispatch starts.
type RunConfig struct {
	Mode           Mode
	InputDir       string
	OutputDir      string
	ReferenceIndex string
	// Bootstrap is used by kallisto only. Zero disables bootstrapping.
	Bootstrap int
	// Threads is passed to the tool when positive.
	Threads int
	// ExtraArgs are appended verbatim to every command.
	ExtraArgs []string
}

// Command is one external process invocation.
type Command struct {
	Name string
	Args []string
}

// String renders the command as a shell-quoted line.
func (c Command) String() string {
	return exec.QuoteCommand(c.Name, c.Args...)
}

// Aligner turns a sample pair into a command line.
type Aligner interface {
	Name() string
	Binary() string
	// OutputPath is where the tool writes results for the sample.
	OutputPath(pair pairing.SamplePair, cfg RunConfig) string
	Command(pair pairing.SamplePair, cfg RunConfig) Command
}

// New returns the Aligner for mode. An empty binary uses the tool's
// default executable name.
func New(mode Mode, binary string) (Aligner, error) {
	switch mode {
	case Kallisto:
		return &kallisto{binary: orDefault(binary, "kallisto")}, nil
	case HISAT2:
		return &hisat2{binary: orDefault(binary, "hisat2")}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
