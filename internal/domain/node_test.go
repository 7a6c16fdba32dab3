package domain

import (
	"errors"
	"testing"
)

func TestNewNode(t *testing.T) {
	t.Run("creates node with timestamps", func(t *testing.T) {
		node := NewNode("t1", "Climate", "hub")

		if node.ID != "t1" {
			t.Errorf("expected ID 't1', got %s", node.ID)
		}
		if node.ParentID != "hub" {
			t.Errorf("expected parent 'hub', got %s", node.ParentID)
		}
		if node.CreatedAt.IsZero() || node.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("node without parent is root", func(t *testing.T) {
		if !NewNode("hub", "Hub", "").IsRoot() {
			t.Error("expected IsRoot to be true")
		}
	})
}

func TestNodeDisplayName(t *testing.T) {
	if got := (&Node{ID: "x"}).DisplayName(); got != "x" {
		t.Errorf("expected fallback to ID, got %q", got)
	}
	if got := (&Node{ID: "x", Name: "Name"}).DisplayName(); got != "Name" {
		t.Errorf("expected name, got %q", got)
	}
}

func TestNodeValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    Node
		wantErr bool
	}{
		{"valid hub", Node{ID: "hub", Name: "Hub"}, false},
		{"valid theme", Node{ID: "t", Name: "T", ParentID: "hub"}, false},
		{"missing id", Node{Name: "T"}, true},
		{"missing name", Node{ID: "t"}, true},
		{"self parent", Node{ID: "t", Name: "T", ParentID: "t"}, true},
		{"negative child count", Node{ID: "t", Name: "T", ChildCount: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNode) {
					t.Errorf("expected ErrInvalidNode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
