package visibility

import (
	"sort"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/domain"
)

// DefaultThreshold is the minimum NDC distance between two shown labels
const DefaultThreshold = 0.15

// Anchor is a label candidate: one per visible node
type Anchor struct {
	NodeID   string
	ParentID string
	Depth    int // 0 hub, 1 theme, 2 subgraph
	Index    int // position within its ring
	Position v3.Vec
}

// AnchorsFrom builds label candidates from layout positions
func AnchorsFrom(positions []domain.LayoutPosition) []Anchor {
	out := make([]Anchor, 0, len(positions))
	for _, p := range positions {
		out = append(out, Anchor{
			NodeID:   p.NodeID,
			ParentID: p.ParentID,
			Depth:    p.Depth(),
			Index:    p.Index,
			Position: p.Position,
		})
	}
	return out
}

// Policy filters labels before the overlap test
type Policy struct {
	Threshold float64
	// FocusOnly hides theme labels other than the active one while a
	// theme is active, and child labels outside the active theme.
	FocusOnly     bool
	ActiveThemeID string
}

// allows applies the focus overlay
func (p Policy) allows(a Anchor) bool {
	if !p.FocusOnly {
		return true
	}
	switch a.Depth {
	case 1:
		return p.ActiveThemeID == "" || p.ActiveThemeID == a.NodeID
	case 2:
		return p.ActiveThemeID != "" && p.ActiveThemeID == a.ParentID
	default:
		return true
	}
}

// Label is the outcome for one node
type Label struct {
	NodeID   string `json:"node_id"`
	Visible  bool   `json:"visible"`
	OnScreen bool   `json:"on_screen"`
	Screen   NDC    `json:"screen"`
}

// Result maps node IDs to their label outcome
type Result map[string]Label

// Visible reports whether a node's label is shown
func (r Result) Visible(id string) bool {
	return r[id].Visible
}

// Shown returns the IDs of all shown labels, sorted
func (r Result) Shown() []string {
	var ids []string
	for id, l := range r {
		if l.Visible {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Declutter runs the greedy suppression pass. Parents are processed
// before children, then by ring index; a candidate is accepted when it is
// on-screen, allowed by the policy and at least Threshold away from every
// label accepted before it. Every call recomputes from scratch, so
// repeated calls with identical input give identical output. An invalid
// transform hides every label.
func Declutter(anchors []Anchor, vp ViewProjection, policy Policy) Result {
	result := make(Result, len(anchors))
	for _, a := range anchors {
		result[a.NodeID] = Label{NodeID: a.NodeID}
	}
	if !vp.Valid {
		return result
	}

	threshold := policy.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	ordered := make([]Anchor, len(anchors))
	copy(ordered, anchors)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Depth != ordered[j].Depth {
			return ordered[i].Depth < ordered[j].Depth
		}
		return ordered[i].Index < ordered[j].Index
	})

	accepted := make([]NDC, 0, len(ordered))
	for _, a := range ordered {
		screen, onScreen := ProjectToScreen(a.Position, vp.Matrix)
		label := Label{NodeID: a.NodeID, OnScreen: onScreen, Screen: screen}

		if onScreen && policy.allows(a) && !crowded(screen, accepted, threshold) {
			label.Visible = true
			accepted = append(accepted, screen)
		}
		result[a.NodeID] = label
	}

	return result
}

func crowded(p NDC, accepted []NDC, threshold float64) bool {
	for _, q := range accepted {
		if p.Distance(q) < threshold {
			return true
		}
	}
	return false
}
