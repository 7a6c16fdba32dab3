package domain

import v3 "github.com/deadsy/sdfx/vec/v3"

// Ring identifies which orbit a node is laid out on
type Ring string

const (
	RingHub   Ring = "hub"
	RingTheme Ring = "theme"
	RingChild Ring = "child"
)

// LayoutPosition is the derived placement of one node. It is recomputed
// whenever the active theme, device class or node set changes.
type LayoutPosition struct {
	NodeID   string  `json:"node_id"`
	ParentID string  `json:"parent_id,omitempty"`
	Ring     Ring    `json:"ring"`
	Position v3.Vec  `json:"position"`
	Radius   float64 `json:"radius"`
	Angle    float64 `json:"angle"`
	Index    int     `json:"index"`
	Count    int     `json:"count"`
	Scale    float64 `json:"scale"`
}

// Depth returns 0 for the hub, 1 for themes and 2 for subgraphs
func (p LayoutPosition) Depth() int {
	switch p.Ring {
	case RingHub:
		return 0
	case RingTheme:
		return 1
	default:
		return 2
	}
}
