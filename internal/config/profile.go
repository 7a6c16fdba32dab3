package config

import (
	"time"

	"orbitview/internal/domain"
)

// Profile holds every device-dependent constant used by layout, framing
// and label declutter.
type Profile struct {
	// Orbital layout
	OrbitRadius     float64 `yaml:"orbit_radius"`
	Wobble          float64 `yaml:"wobble"` // out-of-plane amplitude of the theme ring
	ChildRadiusBase float64 `yaml:"child_radius_base"`
	ChildRadiusStep float64 `yaml:"child_radius_step"` // growth per child
	ChildRadiusMin  float64 `yaml:"child_radius_min"`
	ChildRadiusMax  float64 `yaml:"child_radius_max"`
	ChildWobble     float64 `yaml:"child_wobble"`

	// Viewpoint framing
	MinDistance       float64       `yaml:"min_distance"`
	DistanceBase      float64       `yaml:"distance_base"`
	DistancePerChild  float64       `yaml:"distance_per_child"`
	MinExtent         float64       `yaml:"min_extent"`
	AnimationDuration time.Duration `yaml:"animation_duration"`
	OverviewPosition  [3]float64    `yaml:"overview_position"`
	OverviewLookAt    [3]float64    `yaml:"overview_look_at"`

	// Projection and labels
	FieldOfView    float64 `yaml:"field_of_view"` // vertical, degrees
	NearPlane      float64 `yaml:"near_plane"`
	FarPlane       float64 `yaml:"far_plane"`
	LabelThreshold float64 `yaml:"label_threshold"` // minimum NDC distance between labels
	FocusLabels    bool    `yaml:"focus_labels"`    // hide labels outside the active theme
	DrillDown      bool    `yaml:"drill_down"`      // children as a card list
}

// Profiles maps device classes to their default profiles
var Profiles = map[domain.DeviceClass]Profile{
	domain.DeviceDesktop: {
		OrbitRadius:       3.5,
		Wobble:            0.5,
		ChildRadiusBase:   1.2,
		ChildRadiusStep:   0.1,
		ChildRadiusMin:    1.2,
		ChildRadiusMax:    2.2,
		ChildWobble:       0.25,
		MinDistance:       8,
		DistanceBase:      2.5,
		DistancePerChild:  0.15,
		MinExtent:         0.5,
		AnimationDuration: 1000 * time.Millisecond,
		OverviewPosition:  [3]float64{0, 4, 12},
		OverviewLookAt:    [3]float64{0, 0, 0},
		FieldOfView:       60,
		NearPlane:         0.1,
		FarPlane:          1000,
		LabelThreshold:    0.15,
	},
	domain.DeviceMobile: {
		OrbitRadius:       2.8,
		Wobble:            0.5,
		ChildRadiusBase:   1.0,
		ChildRadiusStep:   0.1,
		ChildRadiusMin:    1.0,
		ChildRadiusMax:    1.8,
		ChildWobble:       0.25,
		MinDistance:       6,
		DistanceBase:      2,
		DistancePerChild:  0.2,
		MinExtent:         0.5,
		AnimationDuration: 1000 * time.Millisecond,
		OverviewPosition:  [3]float64{0, 5, 14},
		OverviewLookAt:    [3]float64{0, 0, 0},
		FieldOfView:       60,
		NearPlane:         0.1,
		FarPlane:          1000,
		LabelThreshold:    0.15,
		FocusLabels:       true,
		DrillDown:         true,
	},
}

// ProfileFor returns the default profile for a device class
func ProfileFor(device domain.DeviceClass) Profile {
	if profile, ok := Profiles[device]; ok {
		return profile
	}
	return Profiles[domain.DeviceDesktop]
}

// apply copies the set fields of an override onto the profile
func (o *ProfileOverride) apply(p Profile) Profile {
	if o == nil {
		return p
	}
	override(&p.OrbitRadius, o.OrbitRadius)
	override(&p.Wobble, o.Wobble)
	override(&p.ChildRadiusBase, o.ChildRadiusBase)
	override(&p.ChildRadiusStep, o.ChildRadiusStep)
	override(&p.ChildRadiusMin, o.ChildRadiusMin)
	override(&p.ChildRadiusMax, o.ChildRadiusMax)
	override(&p.ChildWobble, o.ChildWobble)

	override(&p.MinDistance, o.MinDistance)
	override(&p.DistanceBase, o.DistanceBase)
	override(&p.DistancePerChild, o.DistancePerChild)
	override(&p.MinExtent, o.MinExtent)
	if o.AnimationDuration != nil {
		p.AnimationDuration = o.AnimationDuration.Duration()
	}
	override(&p.OverviewPosition, o.OverviewPosition)
	override(&p.OverviewLookAt, o.OverviewLookAt)

	override(&p.FieldOfView, o.FieldOfView)
	override(&p.NearPlane, o.NearPlane)
	override(&p.FarPlane, o.FarPlane)
	override(&p.LabelThreshold, o.LabelThreshold)
	override(&p.FocusLabels, o.FocusLabels)
	override(&p.DrillDown, o.DrillDown)
	return p
}

func override[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
