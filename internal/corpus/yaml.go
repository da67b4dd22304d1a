// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperscope/pkg/types"
)

// dumpFile is the YAML hand-over format shared with the ingestion
// pipeline: a top-level papers list.
type dumpFile struct {
	Papers []types.Paper `yaml:"papers"`
}

// LoadYAML reads a YAML corpus dump.
func LoadYAML(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus dump: %w", err)
	}
	var dump dumpFile
	if err := yaml.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("parsing corpus dump: %w", err)
	}
	return dump.Papers, nil
}

// WriteYAML writes the snapshot's records as a YAML corpus dump.
func WriteYAML(path string, papers []types.Paper) error {
	data, err := yaml.Marshal(dumpFile{Papers: papers})
	if err != nil {
		return fmt.Errorf("marshaling corpus dump: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing corpus dump: %w", err)
	}
	return nil
}
