package pairing

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects how files are matched into pairs.
type Strategy string

const (
	// BySuffix partitions names by the _1/_2 substrings and pairs them by
	// sorted position.
	BySuffix Strategy = "suffix"
	// ByName parses each name and pairs files with the same sample.
	ByName Strategy = "name"
)

var ErrUnknownStrategy = errors.New("unknown pairing strategy")

// ParseStrategy accepts "suffix" or "name". An empty string means BySuffix.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", BySuffix:
		return BySuffix, nil
	case ByName:
		return ByName, nil
	}
	return "", fmt.Errorf("%w: %q (want suffix or name)", ErrUnknownStrategy, s)
}

// Discovery is what was found in an input directory.
type Discovery struct {
	Pairs []SamplePair
	// Validation is set for BySuffix only.
	Validation *ValidationResult
	// Err is non-nil when the files do not form valid pairs. Pairs must not
	// be dispatched in that case.
	Err error
}

// Discover lists dir and pairs its files. An error is returned only when the
// directory cannot be read or the strategy is unknown; naming problems are
// reported in Discovery.Err.
func Discover(dir string, strategy Strategy, mode ValidationMode) (*Discovery, error) {
	switch strategy {
	case ByName:
		names, err := listFiles(dir)
		if err != nil {
			return nil, err
		}
		pairs, err := PairByName(names)
		if err == nil && len(pairs) == 0 {
			err = ErrNoMates
		}
		return &Discovery{Pairs: pairs, Err: err}, nil
	case BySuffix:
		mate1, mate2, err := ListMates(dir)
		if err != nil {
			return nil, err
		}
		result := CheckMates(mate1, mate2, mode)
		return &Discovery{
			Pairs:      Zip(mate1, mate2),
			Validation: &result,
			Err:        result.Err(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}
