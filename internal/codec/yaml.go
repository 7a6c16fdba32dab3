package codec

import (
	"fmt"
	"io"

	"orbitview/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles flat YAML import/export. Each node names its parent.
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlDocument represents the YAML structure for node data
type yamlDocument struct {
	Nodes []yamlNode `yaml:"nodes"`
}

type yamlNode struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Parent   string `yaml:"parent,omitempty"`
	Director string `yaml:"director,omitempty"`
	Link     string `yaml:"link,omitempty"`
}

// Parse imports nodes from YAML
func (c *YAMLCodec) Parse(r io.Reader) ([]domain.Node, error) {
	var doc yamlDocument
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	nodes := make([]domain.Node, 0, len(doc.Nodes))
	for _, yn := range doc.Nodes {
		nodes = append(nodes, domain.Node{
			ID:       yn.ID,
			Name:     yn.Name,
			ParentID: yn.Parent,
			Director: yn.Director,
			Link:     yn.Link,
		})
	}

	return nodes, nil
}

// Export exports nodes to YAML
func (c *YAMLCodec) Export(nodes []domain.Node, w io.Writer) error {
	doc := yamlDocument{Nodes: make([]yamlNode, 0, len(nodes))}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, yamlNode{
			ID:       n.ID,
			Name:     n.Name,
			Parent:   n.ParentID,
			Director: n.Director,
			Link:     n.Link,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
