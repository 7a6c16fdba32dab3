// Package framing animates the viewpoint between the overview pose and a
// pose that frames a theme together with its rendered children.
package framing

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/config"
	"orbitview/internal/domain"
)

// Target is what a focus call frames: the theme anchor plus the world
// positions of its currently rendered descendants.
type Target struct {
	NodeID     string
	Anchor     v3.Vec
	Points     []v3.Vec
	ChildCount int
}

// Bounds returns the axis-aligned box enclosing the anchor and points
func (t Target) Bounds() sdf.Box3 {
	box := sdf.Box3{Min: t.Anchor, Max: t.Anchor}
	for _, p := range t.Points {
		box = box.Include(p)
	}
	return box
}

// Framing is the derived geometry of a focus target
type Framing struct {
	Center   v3.Vec
	Extent   float64
	Distance float64
	Pose     domain.ViewPose
}

// Overview returns the fixed pose used when nothing is focused
func Overview(p config.Profile) domain.ViewPose {
	return domain.ViewPose{
		Position: vecFrom(p.OverviewPosition),
		LookAt:   vecFrom(p.OverviewLookAt),
	}
}

// Frame computes the pose that shows the target. The camera approaches
// along the anchor's existing horizontal bearing and is raised by half
// the distance; it looks at a point raised by half that height. A
// zero-size volume is widened to the profile's minimum extent.
func Frame(p config.Profile, t Target) Framing {
	box := t.Bounds()
	center := box.Center()

	extent := box.Size().MaxComponent()
	if extent < p.MinExtent || math.IsNaN(extent) {
		extent = p.MinExtent
	}

	multiplier := p.DistanceBase + p.DistancePerChild*float64(max(t.ChildCount, 0))
	distance := math.Max(p.MinDistance, extent*multiplier)

	height := distance / 2
	position := center.
		Add(bearing(t.Anchor).MulScalar(distance)).
		Add(v3.Vec{Y: height})
	lookAt := center.Add(v3.Vec{Y: height / 2})

	return Framing{
		Center:   center,
		Extent:   extent,
		Distance: distance,
		Pose:     domain.ViewPose{Position: position, LookAt: lookAt},
	}
}

// bearing is the unit horizontal direction from the origin to p, or +Z
// when p sits on the vertical axis.
func bearing(p v3.Vec) v3.Vec {
	flat := v3.Vec{X: p.X, Z: p.Z}
	l := flat.Length()
	if l < 1e-9 {
		return v3.Vec{Z: 1}
	}
	return flat.MulScalar(1 / l)
}

// EaseInOutCubic maps linear progress in [0,1] to eased progress
func EaseInOutCubic(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 4 * t * t * t
	default:
		f := -2*t + 2
		return 1 - f*f*f/2
	}
}

func vecFrom(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}
