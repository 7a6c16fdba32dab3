package codec

import (
	"io"

	"orbitview/internal/domain"
)

// Importer interface for importing node trees from various formats
type Importer interface {
	Parse(r io.Reader) ([]domain.Node, error)
	Format() string
}

// Exporter interface for exporting node trees to various formats
type Exporter interface {
	Export(nodes []domain.Node, w io.Writer) error
	Format() string
}

// ForFormat returns the importer for a format name or file extension
func ForFormat(format string) (Importer, bool) {
	switch format {
	case "yaml", "yml", ".yaml", ".yml":
		return NewYAMLCodec(), true
	case "json", ".json":
		return NewJSONCodec(), true
	case "outline":
		return NewOutlineCodec(), true
	}
	return nil, false
}
