package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMetadataPath is the comment layout file read when no path is given
const DefaultMetadataPath = "omni-comment.yml"

// Metadata describes the layout of a freshly created comment
type Metadata struct {
	Title    string   `yaml:"title"`
	Intro    string   `yaml:"intro"`
	Sections []string `yaml:"sections"`
}

// LoadMetadata reads the comment layout file
func LoadMetadata(path string) (*Metadata, error) {
	if path == "" {
		path = DefaultMetadataPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}

	return ParseMetadata(data)
}

// ParseMetadata decodes a YAML comment layout and rejects duplicate section names
func ParseMetadata(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	seen := make(map[string]struct{}, len(meta.Sections))
	for _, section := range meta.Sections {
		if section == "" {
			return nil, fmt.Errorf("failed to parse metadata: empty section name")
		}
		if _, ok := seen[section]; ok {
			return nil, fmt.Errorf("failed to parse metadata: duplicate section %q", section)
		}
		seen[section] = struct{}{}
	}

	return &meta, nil
}
