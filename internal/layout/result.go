package layout

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/domain"
)

// Layout is the result of one Compute call. Positions keep the order in
// which they were placed: hub, themes, then children.
type Layout struct {
	Positions []domain.LayoutPosition `json:"positions"`
	index     map[string]int
}

func newLayout() *Layout {
	return &Layout{
		Positions: make([]domain.LayoutPosition, 0),
		index:     make(map[string]int),
	}
}

func (l *Layout) add(p domain.LayoutPosition) {
	l.index[p.NodeID] = len(l.Positions)
	l.Positions = append(l.Positions, p)
}

// Len returns the number of placed nodes
func (l *Layout) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Positions)
}

// Get returns the position of a node
func (l *Layout) Get(id string) (domain.LayoutPosition, bool) {
	if l == nil {
		return domain.LayoutPosition{}, false
	}
	i, ok := l.index[id]
	if !ok {
		return domain.LayoutPosition{}, false
	}
	return l.Positions[i], true
}

// Ring returns the positions on one ring in placement order
func (l *Layout) Ring(ring domain.Ring) []domain.LayoutPosition {
	if l == nil {
		return nil
	}
	var out []domain.LayoutPosition
	for _, p := range l.Positions {
		if p.Ring == ring {
			out = append(out, p)
		}
	}
	return out
}

// Descendants returns the world positions of every rendered child of id
func (l *Layout) Descendants(id string) []v3.Vec {
	if l == nil {
		return nil
	}
	var out []v3.Vec
	for _, p := range l.Positions {
		if p.ParentID == id && p.Ring == domain.RingChild {
			out = append(out, p.Position)
		}
	}
	return out
}
