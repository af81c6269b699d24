package cmd

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

// DefaultConfigFile is read from the working directory when --config is not given.
const DefaultConfigFile = "align.yml"

// AlignConfig defines the structure for the 'align' section in align.yml.
type AlignConfig struct {
	Aligner    string     `yaml:"aligner,omitempty" jsonschema:"enum=1,enum=2,enum=kallisto,enum=hisat2"`
	Bootstrap  *int       `yaml:"bootstrap,omitempty"`
	Threads    int        `yaml:"threads,omitempty"`
	Validation string     `yaml:"validation,omitempty" jsonschema:"enum=strict,enum=lenient"`
	Pairing    string     `yaml:"pairing,omitempty" jsonschema:"enum=suffix,enum=name"`
	Kallisto   ToolConfig `yaml:"kallisto,omitempty"`
	HISAT2     ToolConfig `yaml:"hisat2,omitempty"`
}

// ToolConfig holds settings for one external aligner.
type ToolConfig struct {
	Binary string   `yaml:"binary,omitempty"`
	Args   []string `yaml:"args,omitempty"`
}

type configFile struct {
	Align AlignConfig `yaml:"align"`
}

// loadAlignConfig reads the 'align' section from path. With an empty path the
// default file is used if it exists; a missing default file yields an empty
// config, but a missing explicit file is an error.
func loadAlignConfig(path string) (*AlignConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &AlignConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse 'align' configuration from %s: %w", path, err)
	}
	return &cfg.Align, nil
}
