package repository

import (
	"context"

	"orbitview/internal/domain"
)

// Repository defines the interface for node data access
type Repository interface {
	// Read operations
	ListNodes(ctx context.Context) ([]domain.Node, error)
	GetNode(ctx context.Context, id string) (*domain.Node, error)

	// Write operations
	UpsertNode(ctx context.Context, node *domain.Node) error
	DeleteNode(ctx context.Context, id string) error

	// Bulk operations
	ImportNodes(ctx context.Context, nodes []domain.Node) error

	// Close releases resources
	Close() error
}
