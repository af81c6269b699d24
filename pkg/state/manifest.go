// Package state records what a run did in the output directory.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the name of the run record written to the output directory.
const ManifestFile = "align-run.yml"

// Sample statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusPlanned   = "planned"
)

// Manifest describes one invocation of the wrapper.
type Manifest struct {
	RunID      string         `yaml:"run_id"`
	Aligner    string         `yaml:"aligner"`
	Reference  string         `yaml:"reference"`
	InputDir   string         `yaml:"input_dir"`
	DryRun     bool           `yaml:"dry_run,omitempty"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	Samples    []SampleRecord `yaml:"samples"`
}

// SampleRecord is the result for one sample pair.
type SampleRecord struct {
	Sample     string `yaml:"sample"`
	Command    string `yaml:"command"`
	Output     string `yaml:"output"`
	Status     string `yaml:"status"`
	ExitCode   int    `yaml:"exit_code"`
	DurationMs int64  `yaml:"duration_ms"`
	Error      string `yaml:"error,omitempty"`
}

// NewManifest starts a manifest with a fresh run id.
func NewManifest(aligner, reference, inputDir string) *Manifest {
	return &Manifest{
		RunID:     uuid.New().String(),
		Aligner:   aligner,
		Reference: reference,
		InputDir:  inputDir,
		StartedAt: time.Now().UTC(),
	}
}

// Failed counts samples with StatusFailed.
func (m *Manifest) Failed() int {
	n := 0
	for _, s := range m.Samples {
		if s.Status == StatusFailed {
			n++
		}
	}
	return n
}

// LoadManifest reads the manifest from dir.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("read run manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse run manifest: %w", err)
	}
	return &m, nil
}

// SaveManifest writes m to dir, replacing any manifest from an earlier run.
func SaveManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal run manifest: %w", err)
	}

	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write run manifest: %w", err)
	}
	return nil
}
