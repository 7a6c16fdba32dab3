package framing

import (
	"math"
	"testing"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/config"
	"orbitview/internal/domain"
)

const eps = 1e-9

func desktop() config.Profile {
	return config.ProfileFor(domain.DeviceDesktop)
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutCubic(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("EaseInOutCubic(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOutCubic(float64(i) / 100)
		if v < prev {
			t.Fatalf("easing decreased at %d", i)
		}
		prev = v
	}
}

func TestFrameDegenerateVolume(t *testing.T) {
	p := desktop()
	f := Frame(p, Target{Anchor: v3.Vec{X: 3.5}})

	if f.Extent != p.MinExtent {
		t.Errorf("Extent = %v, want clamped %v", f.Extent, p.MinExtent)
	}
	if f.Distance != p.MinDistance {
		t.Errorf("Distance = %v, want %v", f.Distance, p.MinDistance)
	}
	if math.IsNaN(f.Pose.Position.X) || math.IsNaN(f.Pose.LookAt.Y) {
		t.Error("pose must stay finite")
	}
}

func TestFrameDistance(t *testing.T) {
	tests := []struct {
		name     string
		device   domain.DeviceClass
		spread   float64
		children int
		want     float64
	}{
		{"desktop small cluster uses minimum", domain.DeviceDesktop, 1, 3, 8},
		{"desktop large cluster", domain.DeviceDesktop, 4, 4, 4 * (2.5 + 0.15*4)},
		{"mobile small cluster uses minimum", domain.DeviceMobile, 1, 3, 6},
		{"mobile large cluster", domain.DeviceMobile, 4, 5, 4 * (2 + 0.2*5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := Target{
				Anchor:     v3.Vec{X: 3},
				Points:     []v3.Vec{{X: 3 + tt.spread, Y: 0, Z: 0}, {X: 3, Y: 0.1, Z: 0.5}},
				ChildCount: tt.children,
			}
			f := Frame(config.ProfileFor(tt.device), target)
			if math.Abs(f.Distance-tt.want) > eps {
				t.Errorf("Distance = %v, want %v", f.Distance, tt.want)
			}
		})
	}
}

func TestFrameBearingAndHeight(t *testing.T) {
	p := desktop()

	t.Run("approaches from the anchor's bearing", func(t *testing.T) {
		anchor := v3.Vec{X: 0, Y: 0.3, Z: -3.5}
		f := Frame(p, Target{Anchor: anchor})
		offset := f.Pose.Position.Sub(f.Center)

		if math.Abs(offset.X) > eps || math.Abs(offset.Z+f.Distance) > eps {
			t.Errorf("horizontal offset = (%v, %v), want (0, %v)", offset.X, offset.Z, -f.Distance)
		}
		if math.Abs(offset.Y-f.Distance/2) > eps {
			t.Errorf("height = %v, want %v", offset.Y, f.Distance/2)
		}
		lookUp := f.Pose.LookAt.Sub(f.Center)
		if math.Abs(lookUp.Y-f.Distance/4) > eps || math.Abs(lookUp.X) > eps || math.Abs(lookUp.Z) > eps {
			t.Errorf("look-at offset = %v, want straight up by %v", lookUp, f.Distance/4)
		}
	})

	t.Run("anchor at origin falls back to +Z", func(t *testing.T) {
		f := Frame(p, Target{})
		if f.Pose.Position.Z <= 0 || math.Abs(f.Pose.Position.X) > eps {
			t.Errorf("expected +Z approach, got %v", f.Pose.Position)
		}
	})

	t.Run("center of the bounding volume", func(t *testing.T) {
		target := Target{Anchor: v3.Vec{X: 2}, Points: []v3.Vec{{X: 4, Y: 2, Z: -2}}}
		f := Frame(p, target)
		want := v3.Vec{X: 3, Y: 1, Z: -1}
		if f.Center.Sub(want).Length() > eps {
			t.Errorf("Center = %v, want %v", f.Center, want)
		}
		if math.Abs(f.Extent-2) > eps {
			t.Errorf("Extent = %v, want 2", f.Extent)
		}
	})
}

func TestControllerFocus(t *testing.T) {
	p := desktop()
	c := NewController(p)

	if !c.Pose().Equals(Overview(p), eps) {
		t.Fatal("expected controller to start at the overview")
	}
	if c.Animating() {
		t.Fatal("expected idle controller")
	}
	if _, changed := c.Step(16 * time.Millisecond); changed {
		t.Error("idle step should not change the pose")
	}

	target := &Target{Anchor: v3.Vec{X: 3.5}}
	c.Focus(target)
	if !c.Animating() {
		t.Fatal("expected animation after Focus")
	}

	for i := 0; i < 100; i++ {
		c.Step(16 * time.Millisecond)
	}
	if c.Animating() {
		t.Error("expected animation to finish within its duration")
	}
	if !c.Pose().Equals(Frame(p, *target).Pose, eps) {
		t.Errorf("Pose = %v, want framed pose", c.Pose())
	}

	c.Focus(nil)
	c.Step(p.AnimationDuration)
	if !c.Pose().Equals(Overview(p), eps) {
		t.Errorf("Pose = %v, want overview", c.Pose())
	}
	if c.Target() != nil {
		t.Error("expected no target at the overview")
	}
}

func TestControllerEasedMidpoint(t *testing.T) {
	p := desktop()
	c := NewController(p)
	target := &Target{Anchor: v3.Vec{X: 3.5}}
	c.Focus(target)

	pose, _ := c.Step(p.AnimationDuration / 4)
	want := Overview(p).Lerp(Frame(p, *target).Pose, EaseInOutCubic(0.25))
	if !pose.Equals(want, 1e-9) {
		t.Errorf("pose at 25%% = %v, want %v", pose, want)
	}
}

func TestControllerPreemption(t *testing.T) {
	p := desktop()
	c := NewController(p)

	a := &Target{Anchor: v3.Vec{X: 3.5}}
	b := &Target{Anchor: v3.Vec{X: -3.5}}

	c.Focus(a)
	c.Step(300 * time.Millisecond)
	live := c.Pose()

	c.Focus(b)
	if !c.Pose().Equals(live, eps) {
		t.Fatal("preemption must not move the pose")
	}
	if c.Progress() != 0 {
		t.Errorf("Progress = %v, want restart at 0", c.Progress())
	}

	first, _ := c.Step(0)
	if !first.Equals(live, eps) {
		t.Errorf("new path starts at %v, want live pose %v", first, live)
	}
	if first.Equals(Overview(p), 1e-3) {
		t.Error("new path must not restart from the original start")
	}

	next, _ := c.Step(16 * time.Millisecond)
	if next.Position.Sub(live.Position).Length() > 0.5 {
		t.Errorf("pose jumped %v in one frame", next.Position.Sub(live.Position).Length())
	}

	c.Step(p.AnimationDuration)
	if !c.Pose().Equals(Frame(p, *b).Pose, eps) {
		t.Error("expected last focus to win")
	}
}

func TestControllerRetarget(t *testing.T) {
	p := desktop()
	c := NewController(p)

	c.Focus(&Target{Anchor: v3.Vec{X: 3.5}})
	c.Step(400 * time.Millisecond)
	progress := c.Progress()

	mobile := config.ProfileFor(domain.DeviceMobile)
	c.SetProfile(mobile)
	moved := &Target{Anchor: v3.Vec{X: 2.8}}
	c.Retarget(moved)

	if c.Progress() != progress {
		t.Errorf("Progress = %v, want uninterrupted %v", c.Progress(), progress)
	}
	if !c.Destination().Equals(Frame(mobile, *moved).Pose, eps) {
		t.Error("expected destination recomputed with the new profile")
	}

	// The live pose is unchanged by the retarget and the next tick only
	// moves as far as the remaining curve allows.
	live := c.Pose()
	next, _ := c.Step(16 * time.Millisecond)
	maxStep := live.Position.Sub(c.Destination().Position).Length()
	if d := next.Position.Sub(live.Position).Length(); d > 0.1*maxStep {
		t.Errorf("pose moved %f in one tick after retarget, remaining distance %f", d, maxStep)
	}
	want := c.start.Lerp(c.end, EaseInOutCubic(c.Progress()))
	if !next.Equals(want, 1e-9) {
		t.Errorf("pose %+v off the re-based curve %+v", next, want)
	}

	c.Step(time.Second)
	if c.Animating() {
		t.Fatal("expected animation to finish")
	}

	// Idle retarget starts a new animation
	c.Retarget(nil)
	if !c.Animating() {
		t.Error("expected idle retarget to animate")
	}
}

func TestControllerZeroDuration(t *testing.T) {
	p := desktop()
	p.AnimationDuration = 0
	c := NewController(p)

	target := &Target{Anchor: v3.Vec{X: 3.5}}
	c.Focus(target)
	pose, changed := c.Step(time.Millisecond)
	if !changed || !pose.Equals(Frame(p, *target).Pose, eps) {
		t.Error("expected zero duration to snap to the destination")
	}
	if c.Animating() {
		t.Error("expected controller idle after snapping")
	}
}
