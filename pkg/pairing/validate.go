package pairing

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationMode selects how many positional pairs must follow the suffix
// convention for a directory to be accepted.
type ValidationMode string

const (
	// Strict requires every pair to match.
	Strict ValidationMode = "strict"
	// Lenient accepts the directory when any single pair matches. This is
	// how the wrapper historically behaved.
	Lenient ValidationMode = "lenient"
)

var (
	ErrLengthMismatch = errors.New("mate 1 and mate 2 file counts differ")
	ErrSuffixMismatch = errors.New("mate files do not end in _1.fastq/_2.fastq")
	ErrUnknownMode    = errors.New("unknown validation mode")
	ErrNoMates        = errors.New("no mate files found")
)

// ParseValidationMode accepts "strict" or "lenient". An empty string means
// Strict.
func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Strict:
		return Strict, nil
	case Lenient:
		return Lenient, nil
	}
	return "", fmt.Errorf("%w: %q (want strict or lenient)", ErrUnknownMode, s)
}

// ValidationResult is the verdict of CheckMates.
type ValidationResult struct {
	Mode ValidationMode
	// Mate1Count and Mate2Count are the lengths of the checked lists.
	Mate1Count int
	Mate2Count int
	// Matched and Mismatched hold the indexes of pairs that did and did not
	// satisfy the suffix check. Both are empty on a length mismatch.
	Matched    []int
	Mismatched []int
}

// LengthMismatch reports whether the two lists had different lengths.
func (r ValidationResult) LengthMismatch() bool {
	return r.Mate1Count != r.Mate2Count
}

// OK reports whether the pairs may be dispatched.
func (r ValidationResult) OK() bool {
	return r.Err() == nil
}

// Err explains why validation failed, or returns nil.
func (r ValidationResult) Err() error {
	if r.LengthMismatch() {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, r.Mate1Count, r.Mate2Count)
	}
	if r.Mate1Count == 0 {
		return ErrNoMates
	}
	switch r.Mode {
	case Lenient:
		if len(r.Matched) == 0 {
			return fmt.Errorf("%w: no pair matched", ErrSuffixMismatch)
		}
	default:
		if len(r.Mismatched) > 0 {
			return fmt.Errorf("%w: %d of %d pairs", ErrSuffixMismatch, len(r.Mismatched), r.Mate1Count)
		}
	}
	return nil
}

// CheckMates compares mate1 and mate2 position by position. Lists of
// different lengths always fail. Otherwise each pair i is checked for
// mate1[i] ending in _1.fastq and mate2[i] ending in _2.fastq, and mode
// decides whether all or any of the pairs must pass.
func CheckMates(mate1, mate2 []string, mode ValidationMode) ValidationResult {
	r := ValidationResult{
		Mode:       mode,
		Mate1Count: len(mate1),
		Mate2Count: len(mate2),
	}
	if r.LengthMismatch() {
		return r
	}
	for i := range mate1 {
		if strings.HasSuffix(mate1[i], Mate1Suffix) && strings.HasSuffix(mate2[i], Mate2Suffix) {
			r.Matched = append(r.Matched, i)
		} else {
			r.Mismatched = append(r.Mismatched, i)
		}
	}
	return r
}
