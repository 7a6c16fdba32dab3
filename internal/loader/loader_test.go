package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orbitview/internal/domain"
	"orbitview/internal/repository/sqlite"
)

const flatSeed = `
nodes:
  - id: studio
    name: Studio
  - id: film
    name: Film
    parent: studio
  - id: film-1
    name: Short One
    parent: film
`

const outlineSeed = `
hub:
  id: studio
  name: Studio
themes:
  - id: film
    name: Film
    subgraphs:
      - id: film-1
        name: Short One
`

func writeSeed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"flat yaml", "seed.yaml", flatSeed},
		{"outline yaml", "seed.yml", outlineSeed},
		{"json", "seed.json", `{"nodes":[{"id":"studio","name":"Studio"},{"id":"film","name":"Film","parent_id":"studio"},{"id":"film-1","name":"Short One","parent_id":"film"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := LoadFile(writeSeed(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			set := domain.NewNodeSet(nodes)
			if len(set.Themes()) != 1 || len(set.Children("film")) != 1 {
				t.Errorf("unexpected tree: %+v", nodes)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		if _, err := Parse([]byte("a,b"), ".csv"); err == nil {
			t.Error("expected error for csv")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		data := []byte("nodes:\n  - {id: a, name: A}\n  - {id: a, name: B}\n")
		_, err := Parse(data, ".yaml")
		if !errors.Is(err, domain.ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := Parse([]byte("nodes:\n  - {id: a}\n"), ".yaml")
		if !errors.Is(err, domain.ErrInvalidNode) {
			t.Errorf("expected ErrInvalidNode, got %v", err)
		}
	})
}

func TestSeed(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if _, err := Seed(ctx, repo, writeSeed(t, "seed.yaml", outlineSeed)); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	nodes, err := repo.ListNodes(ctx)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(nodes))
	}

	if _, err := Seed(ctx, repo, "/does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
