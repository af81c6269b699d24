// Package pairing discovers paired-end FASTQ files and checks that they
// follow the _1/_2 mate naming convention.
package pairing

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// Mate1Marker and Mate2Marker are the substrings used to sort directory
	// entries into mate groups.
	Mate1Marker = "_1"
	Mate2Marker = "_2"

	// Mate1Suffix and Mate2Suffix are the suffixes every positional pair is
	// checked against.
	Mate1Suffix = "_1.fastq"
	Mate2Suffix = "_2.fastq"
)

// SamplePair is the two mate files of one sequencing sample. Mate1 and Mate2
// are names relative to the input directory.
type SamplePair struct {
	Sample string
	Mate1  string
	Mate2  string
}

// ListMates reads dir and returns its regular files split into mate 1 and
// mate 2 candidates, each sorted. A name is a candidate when it contains the
// marker anywhere, so a name carrying both markers appears in both lists.
func ListMates(dir string) (mate1, mate2 []string, err error) {
	names, err := listFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		if strings.Contains(name, Mate1Marker) {
			mate1 = append(mate1, name)
		}
		if strings.Contains(name, Mate2Marker) {
			mate2 = append(mate2, name)
		}
	}
	return mate1, mate2, nil
}

// listFiles returns the sorted names of the non-directory entries in dir.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Zip pairs mate1[i] with mate2[i]. Extra entries in the longer list are
// dropped; callers validate lengths with CheckMates first.
func Zip(mate1, mate2 []string) []SamplePair {
	n := len(mate1)
	if len(mate2) < n {
		n = len(mate2)
	}
	pairs := make([]SamplePair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, SamplePair{
			Sample: SampleID(mate1[i]),
			Mate1:  mate1[i],
			Mate2:  mate2[i],
		})
	}
	return pairs
}

// SampleID derives the sample identifier from a mate 1 filename by dropping
// any directory part and the _1.fastq suffix.
func SampleID(mate1 string) string {
	base := path.Base(filepath.ToSlash(mate1))
	return strings.ReplaceAll(base, Mate1Suffix, "")
}
