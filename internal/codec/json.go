package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"orbitview/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

type jsonDocument struct {
	Nodes []domain.Node `json:"nodes"`
}

// Parse imports nodes from JSON
func (c *JSONCodec) Parse(r io.Reader) ([]domain.Node, error) {
	var doc jsonDocument
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return doc.Nodes, nil
}

// Export exports nodes to JSON
func (c *JSONCodec) Export(nodes []domain.Node, w io.Writer) error {
	if nodes == nil {
		nodes = []domain.Node{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonDocument{Nodes: nodes}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
