package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a node does not exist
	ErrNotFound = errors.New("node not found")
	// ErrInvalidNode is returned when a node fails validation
	ErrInvalidNode = errors.New("invalid node")
)

// Node is one entry of the topic tree. The tree is expressed through
// parent references only; a node without a parent is the hub.
type Node struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	ChildCount int    `json:"child_count"`

	// Optional metadata shown by the host's side panel
	Director string `json:"director,omitempty"`
	Link     string `json:"link,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewNode creates a new node under parentID (empty for the hub)
func NewNode(id, name, parentID string) *Node {
	now := time.Now()
	return &Node{
		ID:        id,
		Name:      name,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsRoot returns true if the node has no parent
func (n *Node) IsRoot() bool {
	return n.ParentID == ""
}

// DisplayName returns the name, falling back to the ID
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Validate checks the fields every stored node must carry
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidNode)
	}
	if n.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidNode)
	}
	if n.ParentID == n.ID {
		return fmt.Errorf("%w: node %s cannot be its own parent", ErrInvalidNode, n.ID)
	}
	if n.ChildCount < 0 {
		return fmt.Errorf("%w: child count must not be negative", ErrInvalidNode)
	}
	return nil
}
