package scene

import (
	"orbitview/internal/domain"
	"orbitview/internal/layout"
	"orbitview/internal/selection"
)

// Frame is an immutable snapshot handed to the renderer
type Frame struct {
	Seq       uint64                  `json:"seq"`
	Device    domain.DeviceClass      `json:"device"`
	Pose      domain.ViewPose         `json:"pose"`
	Animating bool                    `json:"animating"`
	Positions []domain.LayoutPosition `json:"positions"`
	Labels    []FrameLabel            `json:"labels"`
	Rotations map[string]float64      `json:"rotations"`
	Selection selection.Snapshot      `json:"selection"`
	Cards     []domain.Node           `json:"cards,omitempty"`
}

// FrameLabel is the label decision and sizing for one node
type FrameLabel struct {
	NodeID  string            `json:"node_id"`
	Text    string            `json:"text"`
	Visible bool              `json:"visible"`
	Style   layout.LabelStyle `json:"style"`
}

// Label looks up the label for a node
func (f Frame) Label(id string) (FrameLabel, bool) {
	for _, l := range f.Labels {
		if l.NodeID == id {
			return l, true
		}
	}
	return FrameLabel{}, false
}

// Position looks up the position of a node
func (f Frame) Position(id string) (domain.LayoutPosition, bool) {
	for _, p := range f.Positions {
		if p.NodeID == id {
			return p, true
		}
	}
	return domain.LayoutPosition{}, false
}

func (s *Scene) buildFrame() Frame {
	positions := make([]domain.LayoutPosition, len(s.layout.Positions))
	copy(positions, s.layout.Positions)

	rotations := make(map[string]float64, len(s.rotations))
	for id, r := range s.rotations {
		rotations[id] = r
	}

	labels := make([]FrameLabel, 0, len(positions))
	for _, p := range positions {
		node, _ := s.nodes.Get(p.NodeID)
		labels = append(labels, FrameLabel{
			NodeID:  p.NodeID,
			Text:    node.DisplayName(),
			Visible: s.labels.Visible(p.NodeID),
			Style:   layout.LabelSize(s.device, node.ChildCount),
		})
	}

	snap := s.machine.Snapshot()
	var cards []domain.Node
	if snap.DrillDown {
		cards = s.nodes.Children(snap.Selection.ActiveThemeID)
	}

	return Frame{
		Seq:       s.seq,
		Device:    s.device,
		Pose:      s.framer.Pose(),
		Animating: s.framer.Animating(),
		Positions: positions,
		Labels:    labels,
		Rotations: rotations,
		Selection: snap,
		Cards:     cards,
	}
}
