// Package loader reads seed files into node snapshots and pushes them
// into the repository.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orbitview/internal/codec"
	"orbitview/internal/domain"
	"orbitview/internal/repository"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a seed file. The format follows the extension; YAML
// files with a top-level hub key are read as an outline.
func LoadFile(path string) ([]domain.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes seed data of the given format and validates it
func Parse(data []byte, format string) ([]domain.Node, error) {
	format = strings.ToLower(format)
	if isYAML(format) && hasHub(data) {
		format = "outline"
	}

	imp, ok := codec.ForFormat(format)
	if !ok {
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}

	nodes, err := imp.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := Validate(nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Validate checks each node and rejects duplicate IDs
func Validate(nodes []domain.Node) error {
	seen := make(map[string]bool, len(nodes))
	for i := range nodes {
		if err := nodes[i].Validate(); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if seen[nodes[i].ID] {
			return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidNode, nodes[i].ID)
		}
		seen[nodes[i].ID] = true
	}
	return nil
}

// Seed loads path and replaces the repository contents with it
func Seed(ctx context.Context, repo repository.Repository, path string) ([]domain.Node, error) {
	nodes, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed %s: %w", path, err)
	}
	if err := repo.ImportNodes(ctx, nodes); err != nil {
		return nil, fmt.Errorf("import seed %s: %w", path, err)
	}
	return nodes, nil
}

func isYAML(format string) bool {
	switch format {
	case "yaml", "yml", ".yaml", ".yml":
		return true
	}
	return false
}

func hasHub(data []byte) bool {
	var probe struct {
		Hub *yaml.Node `yaml:"hub"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Hub != nil
}
