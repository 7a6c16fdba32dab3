package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version   int             `yaml:"version" toml:"version"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Database  DatabaseConfig  `yaml:"database" toml:"database"`
	Seed      SeedConfig      `yaml:"seed" toml:"seed"`
	Events    EventsConfig    `yaml:"events" toml:"events"`
	Selection SelectionConfig `yaml:"selection" toml:"selection"`
	Visual    *VisualOverride `yaml:"visual,omitempty" toml:"visual,omitempty"`
}

// ServerConfig holds HTTP and frame loop settings
type ServerConfig struct {
	Addr        string   `yaml:"addr" toml:"addr"`
	FrameRate   int      `yaml:"frame_rate" toml:"frame_rate"`     // simulation steps per second
	SessionIdle Duration `yaml:"session_idle" toml:"session_idle"` // unwatched sessions expire after this
}

// DatabaseConfig holds the node repository location
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// SeedConfig points at a YAML/JSON node file imported on startup
type SeedConfig struct {
	Path  string `yaml:"path,omitempty" toml:"path,omitempty"`
	Watch bool   `yaml:"watch" toml:"watch"`
}

// EventsConfig configures where selection events are published
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty" toml:"nats_url,omitempty"` // empty = no publishing
	Subject string `yaml:"subject,omitempty" toml:"subject,omitempty"`  // subject prefix
}

// SelectionConfig controls the reclick UX variant
type SelectionConfig struct {
	// ToggleOff deactivates a theme when it is selected again. When
	// false a reclick leaves the theme active.
	ToggleOff *bool `yaml:"toggle_off,omitempty" toml:"toggle_off,omitempty"`
}

// VisualOverride allows overriding per-device profile defaults
type VisualOverride struct {
	Desktop *ProfileOverride `yaml:"desktop,omitempty" toml:"desktop,omitempty"`
	Mobile  *ProfileOverride `yaml:"mobile,omitempty" toml:"mobile,omitempty"`
}

// ProfileOverride overrides individual profile constants. Unset fields
// keep the device default.
type ProfileOverride struct {
	OrbitRadius     *float64 `yaml:"orbit_radius,omitempty" toml:"orbit_radius,omitempty"`
	Wobble          *float64 `yaml:"wobble,omitempty" toml:"wobble,omitempty"`
	ChildRadiusBase *float64 `yaml:"child_radius_base,omitempty" toml:"child_radius_base,omitempty"`
	ChildRadiusStep *float64 `yaml:"child_radius_step,omitempty" toml:"child_radius_step,omitempty"`
	ChildRadiusMin  *float64 `yaml:"child_radius_min,omitempty" toml:"child_radius_min,omitempty"`
	ChildRadiusMax  *float64 `yaml:"child_radius_max,omitempty" toml:"child_radius_max,omitempty"`
	ChildWobble     *float64 `yaml:"child_wobble,omitempty" toml:"child_wobble,omitempty"`

	MinDistance       *float64    `yaml:"min_distance,omitempty" toml:"min_distance,omitempty"`
	DistanceBase      *float64    `yaml:"distance_base,omitempty" toml:"distance_base,omitempty"`
	DistancePerChild  *float64    `yaml:"distance_per_child,omitempty" toml:"distance_per_child,omitempty"`
	MinExtent         *float64    `yaml:"min_extent,omitempty" toml:"min_extent,omitempty"`
	AnimationDuration *Duration   `yaml:"animation_duration,omitempty" toml:"animation_duration,omitempty"`
	OverviewPosition  *[3]float64 `yaml:"overview_position,omitempty" toml:"overview_position,omitempty"`
	OverviewLookAt    *[3]float64 `yaml:"overview_look_at,omitempty" toml:"overview_look_at,omitempty"`

	FieldOfView    *float64 `yaml:"field_of_view,omitempty" toml:"field_of_view,omitempty"`
	NearPlane      *float64 `yaml:"near_plane,omitempty" toml:"near_plane,omitempty"`
	FarPlane       *float64 `yaml:"far_plane,omitempty" toml:"far_plane,omitempty"`
	LabelThreshold *float64 `yaml:"label_threshold,omitempty" toml:"label_threshold,omitempty"`
	FocusLabels    *bool    `yaml:"focus_labels,omitempty" toml:"focus_labels,omitempty"`
	DrillDown      *bool    `yaml:"drill_down,omitempty" toml:"drill_down,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
