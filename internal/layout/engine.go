// Package layout places the hub, its themes and the active theme's
// subgraphs on concentric rings.
package layout

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/config"
	"orbitview/internal/domain"
)

// Node scale factors by state
const (
	hubScale           = 1.0
	hubScaleFocused    = 0.6
	themeScale         = 1.0
	themeScaleActive   = 1.3
	themeScaleInactive = 0.85
	childScale         = 0.7
	hoverBoost         = 1.15
)

// Engine computes orbital positions from a node snapshot
type Engine struct {
	profile config.Profile
}

// NewEngine creates a layout engine for a device profile
func NewEngine(profile config.Profile) *Engine {
	return &Engine{profile: profile}
}

// Profile returns the profile the engine lays out with
func (e *Engine) Profile() config.Profile {
	return e.profile
}

// Compute lays out every theme and, when a theme is active, its
// children. A zoom of zero or less is treated as 1. An empty set, a set
// without a hub or a hub without themes yields an empty layout.
func (e *Engine) Compute(set *domain.NodeSet, sel domain.Selection, zoom float64) *Layout {
	out := newLayout()

	hub, ok := set.Hub()
	if !ok {
		return out
	}
	themes := set.Themes()
	if len(themes) == 0 {
		return out
	}
	if zoom <= 0 {
		zoom = 1
	}

	hubPos := domain.LayoutPosition{
		NodeID: hub.ID,
		Ring:   domain.RingHub,
		Scale:  hubScale,
		Count:  1,
	}
	if sel.HasActive() {
		hubPos.Scale = hubScaleFocused
	}
	out.add(withHover(hubPos, sel))

	radius := e.profile.OrbitRadius * zoom
	for i, theme := range themes {
		pos := ringPosition(v3.Vec{}, radius, e.profile.Wobble, i, len(themes))
		pos.NodeID = theme.ID
		pos.ParentID = hub.ID
		pos.Ring = domain.RingTheme
		pos.Scale = themeScaleFor(theme.ID, sel)
		out.add(withHover(pos, sel))
	}

	if !sel.HasActive() {
		return out
	}
	anchor, ok := out.Get(sel.ActiveThemeID)
	if !ok || anchor.Ring != domain.RingTheme {
		return out
	}

	children := set.Children(sel.ActiveThemeID)
	childRadius := ChildRingRadius(e.profile, len(children))
	for j, child := range children {
		pos := ringPosition(anchor.Position, childRadius, e.profile.ChildWobble, j, len(children))
		pos.NodeID = child.ID
		pos.ParentID = anchor.NodeID
		pos.Ring = domain.RingChild
		pos.Scale = childScale
		out.add(withHover(pos, sel))
	}

	return out
}

// ChildRingRadius returns clamp(base + step*k, min, max). It is
// monotonically non-decreasing in k.
func ChildRingRadius(p config.Profile, childCount int) float64 {
	if childCount < 0 {
		childCount = 0
	}
	hi := math.Max(p.ChildRadiusMax, p.ChildRadiusMin)
	r := p.ChildRadiusBase + p.ChildRadiusStep*float64(childCount)
	return math.Min(math.Max(r, p.ChildRadiusMin), hi)
}

// ringPosition places slot i of n on a horizontal ring around center. The
// y offset amp*sin(2*angle) keeps the ring from being perfectly flat so
// neighboring labels separate on screen.
func ringPosition(center v3.Vec, radius, amp float64, i, n int) domain.LayoutPosition {
	angle := 2 * math.Pi * float64(i) / float64(n)
	offset := v3.Vec{
		X: radius * math.Cos(angle),
		Y: amp * math.Sin(2*angle),
		Z: radius * math.Sin(angle),
	}
	return domain.LayoutPosition{
		Position: center.Add(offset),
		Radius:   radius,
		Angle:    angle,
		Index:    i,
		Count:    n,
	}
}

func themeScaleFor(id string, sel domain.Selection) float64 {
	switch {
	case !sel.HasActive():
		return themeScale
	case sel.ActiveThemeID == id:
		return themeScaleActive
	default:
		return themeScaleInactive
	}
}

func withHover(p domain.LayoutPosition, sel domain.Selection) domain.LayoutPosition {
	if sel.HoveredID != "" && sel.HoveredID == p.NodeID {
		p.Scale *= hoverBoost
	}
	return p
}
