package pairing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFastq      = errors.New("not a FASTQ file name")
	ErrNoMateMarker  = errors.New("missing _1/_2 mate marker")
	ErrUnpairedMate  = errors.New("sample has only one mate")
	ErrAmbiguousName = errors.New("sample has more than one file for the same mate")
)

// fastqExtensions lists the accepted extensions, longest first so that
// ".fastq.gz" wins over ".fastq".
var fastqExtensions = []string{".fastq.gz", ".fq.gz", ".fastq", ".fq"}

// MateName is a FASTQ file name split into its parts:
// <Sample>_<Mate><Ext>.
type MateName struct {
	Sample string
	Mate   int
	Ext    string
}

// ParseMateName parses a file name of the form <sample>_1.fastq or
// <sample>_2.fq.gz.
func ParseMateName(name string) (MateName, error) {
	var ext string
	for _, e := range fastqExtensions {
		if strings.HasSuffix(name, e) {
			ext = e
			break
		}
	}
	if ext == "" {
		return MateName{}, fmt.Errorf("%w: %s", ErrNotFastq, name)
	}

	stem := strings.TrimSuffix(name, ext)
	var mate int
	switch {
	case strings.HasSuffix(stem, Mate1Marker):
		mate = 1
	case strings.HasSuffix(stem, Mate2Marker):
		mate = 2
	default:
		return MateName{}, fmt.Errorf("%w: %s", ErrNoMateMarker, name)
	}

	sample := stem[:len(stem)-len(Mate1Marker)]
	if sample == "" {
		return MateName{}, fmt.Errorf("%w: %s has no sample name", ErrNoMateMarker, name)
	}
	return MateName{Sample: sample, Mate: mate, Ext: ext}, nil
}

// PairByName pairs files by parsed sample name instead of by position.
// Names that are not FASTQ files are skipped. A FASTQ name without a mate
// marker, a sample missing one of its mates, or a sample with two files for
// the same mate is an error. Pairs are returned sorted by sample.
func PairByName(names []string) ([]SamplePair, error) {
	bySample := make(map[string]*SamplePair)
	for _, name := range names {
		mn, err := ParseMateName(name)
		if errors.Is(err, ErrNotFastq) {
			continue
		}
		if err != nil {
			return nil, err
		}

		p, ok := bySample[mn.Sample]
		if !ok {
			p = &SamplePair{Sample: mn.Sample}
			bySample[mn.Sample] = p
		}
		slot := &p.Mate1
		if mn.Mate == 2 {
			slot = &p.Mate2
		}
		if *slot != "" {
			return nil, fmt.Errorf("%w: %s and %s", ErrAmbiguousName, *slot, name)
		}
		*slot = name
	}

	pairs := make([]SamplePair, 0, len(bySample))
	for _, p := range bySample {
		pairs = append(pairs, *p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Sample < pairs[j].Sample
	})
	for _, p := range pairs {
		if p.Mate1 == "" || p.Mate2 == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnpairedMate, p.Sample)
		}
	}
	return pairs, nil
}
