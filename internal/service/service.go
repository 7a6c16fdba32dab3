package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"orbitview/internal/codec"
	"orbitview/internal/domain"
	"orbitview/internal/loader"
	"orbitview/internal/repository"
)

// NodeSink receives every new node snapshot
type NodeSink interface {
	SetNodes(nodes []domain.Node)
}

// NodeService provides business logic for node tree operations
type NodeService struct {
	repo     repository.Repository
	eventBus *EventBus
	sink     NodeSink
}

// NewNodeService creates a new node service. sink may be nil.
func NewNodeService(repo repository.Repository, eventBus *EventBus, sink NodeSink) *NodeService {
	return &NodeService{
		repo:     repo,
		eventBus: eventBus,
		sink:     sink,
	}
}

// ListNodes returns all nodes in layout order
func (s *NodeService) ListNodes(ctx context.Context) ([]domain.Node, error) {
	return s.repo.ListNodes(ctx)
}

// GetNode retrieves a single node by ID
func (s *NodeService) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	return s.repo.GetNode(ctx, id)
}

// UpsertNode creates or updates a node
func (s *NodeService) UpsertNode(ctx context.Context, node *domain.Node) error {
	if err := s.validateParent(ctx, node); err != nil {
		return err
	}
	if err := s.repo.UpsertNode(ctx, node); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeUpserted,
		Payload: map[string]string{"node_id": node.ID},
	})
	return s.Refresh(ctx)
}

// DeleteNode removes a node and its subtree
func (s *NodeService) DeleteNode(ctx context.Context, id string) error {
	if err := s.repo.DeleteNode(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventNodeDeleted,
		Payload: map[string]string{"node_id": id},
	})
	return s.Refresh(ctx)
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Format string `json:"format"`
	Nodes  int    `json:"nodes"`
	Themes int    `json:"themes"`
}

// Import replaces the node tree with the contents of r
func (s *NodeService) Import(ctx context.Context, format string, r io.Reader) (*ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read import: %w", err)
	}
	nodes, err := loader.Parse(data, format)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ImportNodes(ctx, nodes); err != nil {
		return nil, err
	}

	result := &ImportResult{
		Format: format,
		Nodes:  len(nodes),
		Themes: len(domain.NewNodeSet(nodes).Themes()),
	}
	s.eventBus.Publish(Event{
		Type:    EventNodesImported,
		Payload: result,
	})
	return result, s.Refresh(ctx)
}

// ReloadSeed re-imports the seed file, typically after it changed on disk
func (s *NodeService) ReloadSeed(ctx context.Context, path string) error {
	nodes, err := loader.Seed(ctx, s.repo, path)
	if err != nil {
		return err
	}
	s.eventBus.Publish(Event{
		Type:    EventNodesReloaded,
		Payload: map[string]any{"path": path, "nodes": len(nodes)},
	})
	return s.Refresh(ctx)
}

// Export writes the node tree with the exporter for format
func (s *NodeService) Export(ctx context.Context, format string, w io.Writer) error {
	var exp codec.Exporter
	switch format {
	case "yaml":
		exp = codec.NewYAMLCodec()
	case "json":
		exp = codec.NewJSONCodec()
	case "outline":
		exp = codec.NewOutlineCodec()
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}

	nodes, err := s.repo.ListNodes(ctx)
	if err != nil {
		return err
	}
	return exp.Export(nodes, w)
}

// Refresh pushes the current repository snapshot to the sink
func (s *NodeService) Refresh(ctx context.Context) error {
	if s.sink == nil {
		return nil
	}
	nodes, err := s.repo.ListNodes(ctx)
	if err != nil {
		return fmt.Errorf("refresh nodes: %w", err)
	}
	s.sink.SetNodes(nodes)
	return nil
}

// validateParent rejects references to parents that do not exist
func (s *NodeService) validateParent(ctx context.Context, node *domain.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	if node.ParentID == "" {
		return nil
	}
	_, err := s.repo.GetNode(ctx, node.ParentID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: parent %s does not exist", domain.ErrInvalidNode, node.ParentID)
	}
	return err
}
