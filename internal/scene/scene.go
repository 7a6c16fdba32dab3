// Package scene runs the orbit visualization as an explicit simulation.
// All per-node state is kept as plain values keyed by node ID and every
// frame is produced by Step(dt); nothing runs in the background.
package scene

import (
	"math"
	"time"

	"orbitview/internal/config"
	"orbitview/internal/domain"
	"orbitview/internal/framing"
	"orbitview/internal/layout"
	"orbitview/internal/selection"
	"orbitview/internal/visibility"
)

// Idle spin of each ring, radians per second
const (
	hubSpin   = 0.1
	themeSpin = 0.2
	childSpin = 0.4
)

// Framer animates the viewpoint. *framing.Controller implements it.
type Framer interface {
	Focus(t *framing.Target)
	Retarget(t *framing.Target)
	SetProfile(p config.Profile)
	Step(dt time.Duration) (domain.ViewPose, bool)
	Pose() domain.ViewPose
	Animating() bool
}

// ProfileFunc resolves the constants for a device class
type ProfileFunc func(domain.DeviceClass) config.Profile

// Options configures a new Scene
type Options struct {
	IsMobile   bool
	StayActive bool    // reselecting the active theme keeps it active
	Aspect     float64 // 0 until the host reports a viewport
	Zoom       float64
	Profiles   ProfileFunc
	NewFramer  func(config.Profile) Framer

	// OnThemeSelect receives the newly active theme, or nil, on every
	// selection transition.
	OnThemeSelect func(theme *domain.Node)
	// OnSubgraphSelect receives a subgraph chosen from the card list
	OnSubgraphSelect func(subgraph domain.Node)
}

// Scene is one mounted visualization. It is not safe for concurrent use.
type Scene struct {
	profiles ProfileFunc
	device   domain.DeviceClass
	profile  config.Profile
	aspect   float64
	zoom     float64

	nodes   *domain.NodeSet
	machine *selection.Machine
	engine  *layout.Engine
	layout  *layout.Layout
	framer  Framer

	rotations     map[string]float64
	labels        visibility.Result
	labelsDirty   bool
	declutterRuns int
	seq           uint64

	onThemeSelect    func(*domain.Node)
	onSubgraphSelect func(domain.Node)
}

// New mounts a scene over a node snapshot. The first Step runs the
// initial declutter pass.
func New(nodes []domain.Node, opts Options) *Scene {
	profiles := opts.Profiles
	if profiles == nil {
		profiles = config.ProfileFor
	}
	device := domain.DeviceFromMobile(opts.IsMobile)
	profile := profiles(device)

	newFramer := opts.NewFramer
	if newFramer == nil {
		newFramer = func(p config.Profile) Framer { return framing.NewController(p) }
	}

	s := &Scene{
		profiles:         profiles,
		device:           device,
		profile:          profile,
		aspect:           opts.Aspect,
		zoom:             opts.Zoom,
		nodes:            domain.NewNodeSet(nodes),
		machine:          selection.New(selection.WithToggleOff(!opts.StayActive), selection.WithMobile(opts.IsMobile)),
		engine:           layout.NewEngine(profile),
		framer:           newFramer(profile),
		rotations:        make(map[string]float64),
		labels:           make(visibility.Result),
		labelsDirty:      true,
		onThemeSelect:    opts.OnThemeSelect,
		onSubgraphSelect: opts.OnSubgraphSelect,
	}
	s.machine.OnThemeSelect(s.handleTransition)
	s.relayout()
	return s
}

// Device returns the current device class
func (s *Scene) Device() domain.DeviceClass {
	return s.device
}

// Nodes returns the current node snapshot
func (s *Scene) Nodes() *domain.NodeSet {
	return s.nodes
}

// Layout returns the current layout
func (s *Scene) Layout() *layout.Layout {
	return s.layout
}

// Selection returns the selection state
func (s *Scene) Selection() selection.Snapshot {
	return s.machine.Snapshot()
}

// DeclutterRuns counts declutter passes since mount
func (s *Scene) DeclutterRuns() int {
	return s.declutterRuns
}

// SetNodes replaces the node snapshot. An active theme that disappeared
// is dropped; otherwise the framing destination is recomputed from the
// new layout.
func (s *Scene) SetNodes(nodes []domain.Node) {
	s.nodes = domain.NewNodeSet(nodes)
	if _, pruned := s.machine.Prune(s.nodes.IsTheme, s.nodes.Has); pruned {
		return
	}
	s.relayout()
	if s.machine.Selection().HasActive() {
		s.framer.Retarget(s.currentTarget())
	}
	s.labelsDirty = true
}

// SetDevice applies the host's isMobile signal. Radii and distances are
// recomputed; an in-flight animation keeps running toward a destination
// derived from the current selection.
func (s *Scene) SetDevice(isMobile bool) {
	device := domain.DeviceFromMobile(isMobile)
	if device == s.device {
		return
	}
	s.device = device
	s.profile = s.profiles(device)
	s.engine = layout.NewEngine(s.profile)
	s.framer.SetProfile(s.profile)
	s.machine.SetMobile(isMobile)
	s.relayout()
	s.framer.Retarget(s.currentTarget())
	s.labelsDirty = true
}

// Resize updates the viewport aspect ratio
func (s *Scene) Resize(aspect float64) {
	if aspect == s.aspect {
		return
	}
	s.aspect = aspect
	s.labelsDirty = true
}

// SetZoom scales the theme ring
func (s *Scene) SetZoom(zoom float64) {
	if zoom == s.zoom {
		return
	}
	s.zoom = zoom
	s.relayout()
	if s.machine.Selection().HasActive() {
		s.framer.Retarget(s.currentTarget())
	}
	s.labelsDirty = true
}

// SelectTheme selects or toggles a theme. Unknown IDs and non-theme
// nodes are ignored.
func (s *Scene) SelectTheme(id string) (selection.Transition, bool) {
	if !s.nodes.IsTheme(id) {
		return selection.Transition{}, false
	}
	return s.machine.SelectTheme(id), true
}

// ClickEmptySpace handles a pointer miss on the rendering surface
func (s *Scene) ClickEmptySpace() selection.Transition {
	return s.machine.ClickEmptySpace()
}

// Hover marks a rendered node as hovered
func (s *Scene) Hover(id string) bool {
	if _, ok := s.layout.Get(id); !ok {
		return false
	}
	s.machine.Hover(id)
	s.relayout()
	return true
}

// Unhover clears the hovered node
func (s *Scene) Unhover() {
	if s.machine.Selection().HoveredID == "" {
		return
	}
	s.machine.Unhover()
	s.relayout()
}

// DrillDown opens the mobile card list for the active theme
func (s *Scene) DrillDown() bool {
	return s.machine.DrillDown()
}

// DrillUp closes the mobile card list
func (s *Scene) DrillUp() bool {
	return s.machine.DrillUp()
}

// SelectSubgraph chooses a card from the open list and hands it to the
// host.
func (s *Scene) SelectSubgraph(id string) (domain.Node, bool) {
	node, ok := s.nodes.Get(id)
	if !ok || !s.machine.CanSelectSubgraph(node.ParentID) {
		return domain.Node{}, false
	}
	if s.onSubgraphSelect != nil {
		s.onSubgraphSelect(node)
	}
	return node, true
}

// Step advances the simulation by dt: idle spin, viewpoint animation and
// at most one declutter pass.
func (s *Scene) Step(dt time.Duration) Frame {
	if dt < 0 {
		dt = 0
	}
	s.seq++

	seconds := dt.Seconds()
	for _, p := range s.layout.Positions {
		s.rotations[p.NodeID] = math.Mod(s.rotations[p.NodeID]+spinFor(p.Ring)*seconds, 2*math.Pi)
	}

	if _, changed := s.framer.Step(dt); changed {
		s.labelsDirty = true
	}
	if s.labelsDirty {
		s.declutter()
	}

	return s.buildFrame()
}

// Frame returns the current state without advancing time
func (s *Scene) Frame() Frame {
	return s.buildFrame()
}

func (s *Scene) handleTransition(tr selection.Transition) {
	s.relayout()
	s.framer.Focus(s.currentTarget())
	s.labelsDirty = true

	if s.onThemeSelect == nil {
		return
	}
	var theme *domain.Node
	if id := tr.To.Selection.ActiveThemeID; id != "" {
		if n, ok := s.nodes.Get(id); ok {
			theme = &n
		}
	}
	s.onThemeSelect(theme)
}

func (s *Scene) relayout() {
	s.layout = s.engine.Compute(s.nodes, s.machine.Selection(), s.zoom)
	for id := range s.rotations {
		if _, ok := s.layout.Get(id); !ok {
			delete(s.rotations, id)
		}
	}
}

// currentTarget frames the active theme and its rendered children, or
// returns nil for the overview.
func (s *Scene) currentTarget() *framing.Target {
	id := s.machine.ActiveThemeID()
	if id == "" {
		return nil
	}
	anchor, ok := s.layout.Get(id)
	if !ok {
		return nil
	}
	points := s.layout.Descendants(id)
	return &framing.Target{
		NodeID:     id,
		Anchor:     anchor.Position,
		Points:     points,
		ChildCount: len(points),
	}
}

func (s *Scene) lens() visibility.Lens {
	return visibility.Lens{
		FieldOfView: s.profile.FieldOfView,
		Aspect:      s.aspect,
		Near:        s.profile.NearPlane,
		Far:         s.profile.FarPlane,
	}
}

func (s *Scene) declutter() {
	vp := visibility.NewViewProjection(s.framer.Pose(), s.lens())
	policy := visibility.Policy{
		Threshold:     s.profile.LabelThreshold,
		FocusOnly:     s.profile.FocusLabels,
		ActiveThemeID: s.machine.ActiveThemeID(),
	}
	s.labels = visibility.Declutter(visibility.AnchorsFrom(s.layout.Positions), vp, policy)
	s.labelsDirty = false
	s.declutterRuns++
}

func spinFor(ring domain.Ring) float64 {
	switch ring {
	case domain.RingHub:
		return hubSpin
	case domain.RingChild:
		return childSpin
	default:
		return themeSpin
	}
}
