package codec

import (
	"fmt"
	"io"

	"orbitview/internal/domain"

	"gopkg.in/yaml.v3"
)

// OutlineCodec reads and writes the nested hub/themes/subgraphs layout
// that is convenient to author by hand:
//
//	hub:
//	  id: studio
//	  name: Studio
//	themes:
//	  - id: film
//	    name: Film
//	    subgraphs:
//	      - id: film-1
//	        name: Short One
type OutlineCodec struct{}

// NewOutlineCodec creates a new outline codec
func NewOutlineCodec() *OutlineCodec {
	return &OutlineCodec{}
}

// Format returns the codec format identifier
func (c *OutlineCodec) Format() string {
	return "outline"
}

type outlineDocument struct {
	Hub    outlineEntry   `yaml:"hub"`
	Themes []outlineTheme `yaml:"themes,omitempty"`
}

type outlineEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Director string `yaml:"director,omitempty"`
	Link     string `yaml:"link,omitempty"`
}

type outlineTheme struct {
	outlineEntry `yaml:",inline"`
	Subgraphs    []outlineEntry `yaml:"subgraphs,omitempty"`
}

func (e outlineEntry) node(parentID string) domain.Node {
	return domain.Node{
		ID:       e.ID,
		Name:     e.Name,
		ParentID: parentID,
		Director: e.Director,
		Link:     e.Link,
	}
}

func entryOf(n domain.Node) outlineEntry {
	return outlineEntry{ID: n.ID, Name: n.Name, Director: n.Director, Link: n.Link}
}

// Parse flattens an outline into nodes, hub first
func (c *OutlineCodec) Parse(r io.Reader) ([]domain.Node, error) {
	var doc outlineDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse outline: %w", err)
	}
	if doc.Hub.ID == "" {
		return nil, fmt.Errorf("%w: outline has no hub id", domain.ErrInvalidNode)
	}

	nodes := []domain.Node{doc.Hub.node("")}
	for _, theme := range doc.Themes {
		nodes = append(nodes, theme.node(doc.Hub.ID))
		for _, sub := range theme.Subgraphs {
			nodes = append(nodes, sub.node(theme.ID))
		}
	}
	return nodes, nil
}

// Export writes the hub, its themes and their subgraphs. Nodes deeper
// than two levels are not part of the outline and are dropped.
func (c *OutlineCodec) Export(nodes []domain.Node, w io.Writer) error {
	set := domain.NewNodeSet(nodes)
	hub, ok := set.Hub()
	if !ok {
		return fmt.Errorf("%w: node set has no single hub", domain.ErrInvalidNode)
	}

	doc := outlineDocument{Hub: entryOf(hub)}
	for _, theme := range set.Themes() {
		ot := outlineTheme{outlineEntry: entryOf(theme)}
		for _, sub := range set.Children(theme.ID) {
			ot.Subgraphs = append(ot.Subgraphs, entryOf(sub))
		}
		doc.Themes = append(doc.Themes, ot)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode outline: %w", err)
	}
	return nil
}
