package aligner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-align/pkg/pairing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"1", Kallisto, false},
		{"kallisto", Kallisto, false},
		{"2", HISAT2, false},
		{" HISAT2 ", HISAT2, false},
		{"3", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownMode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	_, err := New(Mode(7), "")
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Equal(t, "mode(7)", Mode(7).String())
}

func TestKallistoCommand(t *testing.T) {
	a, err := New(Kallisto, "")
	require.NoError(t, err)

	pair := pairing.SamplePair{Sample: "A", Mate1: "A_1.fastq", Mate2: "A_2.fastq"}
	cfg := RunConfig{
		Mode:           Kallisto,
		InputDir:       "/data/in",
		OutputDir:      "/data/out",
		ReferenceIndex: "/ref/transcripts.idx",
		Bootstrap:      DefaultBootstrap,
	}
	assert.Equal(t,
		"kallisto quant -i /ref/transcripts.idx -o /data/out/A /data/in/A_1.fastq /data/in/A_2.fastq -b 100",
		a.Command(pair, cfg).String())

	cfg.Bootstrap = 0
	assert.Equal(t,
		"kallisto quant -i /ref/transcripts.idx -o /data/out/A /data/in/A_1.fastq /data/in/A_2.fastq -b 0",
		a.Command(pair, cfg).String(), "zero bootstraps is passed through")

	cfg.Bootstrap = 30
	cfg.Threads = 8
	cfg.ExtraArgs = []string{"--plaintext"}
	assert.Equal(t,
		"kallisto quant -i /ref/transcripts.idx -o /data/out/A /data/in/A_1.fastq /data/in/A_2.fastq -b 30 -t 8 --plaintext",
		a.Command(pair, cfg).String())
}

func TestHISAT2Command(t *testing.T) {
	a, err := New(HISAT2, "/opt/hisat2/hisat2")
	require.NoError(t, err)

	pair := pairing.SamplePair{Sample: "B", Mate1: "B_1.fastq", Mate2: "B_2.fastq"}
	cfg := RunConfig{
		Mode:           HISAT2,
		InputDir:       "in",
		OutputDir:      "out",
		ReferenceIndex: "/ref/grch38/genome",
		Threads:        4,
	}
	cmd := a.Command(pair, cfg)
	assert.Equal(t, "/opt/hisat2/hisat2", cmd.Name)
	assert.Equal(t, []string{
		"-x", "/ref/grch38/genome",
		"-1", "in/B_1.fastq",
		"-2", "in/B_2.fastq",
		"-S", "out/B.sam",
		"-p", "4",
	}, cmd.Args)
}

func TestCommandPathsIgnoreTrailingSeparators(t *testing.T) {
	pair := pairing.SamplePair{Sample: "A", Mate1: "A_1.fastq", Mate2: "A_2.fastq"}
	for _, mode := range []Mode{Kallisto, HISAT2} {
		a, err := New(mode, "")
		require.NoError(t, err)

		bare := a.Command(pair, RunConfig{InputDir: "/data/in", OutputDir: "/data/out", ReferenceIndex: "ref"})
		slashed := a.Command(pair, RunConfig{InputDir: "/data/in/", OutputDir: "/data/out//", ReferenceIndex: "ref"})
		assert.Equal(t, bare, slashed, mode.String())
		for _, arg := range slashed.Args {
			assert.NotContains(t, arg, "//")
		}
	}
}
