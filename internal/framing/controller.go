package framing

import (
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"orbitview/internal/config"
	"orbitview/internal/domain"
)

// Controller owns the ViewPose. At most one animation runs at a time; a
// new Focus call replaces it and starts from the live interpolated pose.
type Controller struct {
	profile config.Profile

	pose     domain.ViewPose
	start    domain.ViewPose
	end      domain.ViewPose
	elapsed  time.Duration
	duration time.Duration
	active   bool
	target   *Target
}

// NewController creates an idle controller resting at the overview pose
func NewController(profile config.Profile) *Controller {
	overview := Overview(profile)
	return &Controller{
		profile: profile,
		pose:    overview,
		start:   overview,
		end:     overview,
	}
}

// Pose returns the current pose
func (c *Controller) Pose() domain.ViewPose {
	return c.pose
}

// Destination returns where the current or last animation ends
func (c *Controller) Destination() domain.ViewPose {
	return c.end
}

// Target returns the focused target, nil at the overview
func (c *Controller) Target() *Target {
	return c.target
}

// Animating reports whether an animation is in flight
func (c *Controller) Animating() bool {
	return c.active
}

// Progress returns linear animation progress in [0,1]
func (c *Controller) Progress() float64 {
	if !c.active || c.duration <= 0 {
		return 1
	}
	return min(float64(c.elapsed)/float64(c.duration), 1)
}

// Focus animates toward a pose framing t, or back to the overview when t
// is nil. Any in-flight animation is superseded; the live pose becomes
// the new start so the path never jumps.
func (c *Controller) Focus(t *Target) {
	c.target = t
	c.start = c.pose
	c.end = c.destination(t)
	c.elapsed = 0
	c.duration = c.profile.AnimationDuration
	c.active = true
}

// Retarget recomputes the destination for t without restarting the
// clock. The start is re-based so the curve through the new destination
// passes through the live pose at the current progress. An idle
// controller starts a fresh animation instead.
func (c *Controller) Retarget(t *Target) {
	if !c.active {
		c.Focus(t)
		return
	}
	end := c.destination(t)
	e := EaseInOutCubic(c.Progress())
	if 1-e < 1e-6 {
		// no curve left to absorb the change
		c.Focus(t)
		return
	}
	c.target = t
	c.end = end
	c.start = domain.ViewPose{
		Position: rebase(c.pose.Position, end.Position, e),
		LookAt:   rebase(c.pose.LookAt, end.LookAt, e),
	}
}

// rebase solves start + e·(end-start) = live for start
func rebase(live, end v3.Vec, e float64) v3.Vec {
	return live.Sub(end.MulScalar(e)).MulScalar(1 / (1 - e))
}

// SetProfile swaps device constants. The in-flight animation keeps its
// destination until the caller retargets it.
func (c *Controller) SetProfile(p config.Profile) {
	c.profile = p
}

// Step advances the animation by dt and returns the new pose. The bool
// is true when the pose changed.
func (c *Controller) Step(dt time.Duration) (domain.ViewPose, bool) {
	if !c.active {
		return c.pose, false
	}
	if dt < 0 {
		dt = 0
	}

	c.elapsed += dt
	if c.duration <= 0 || c.elapsed >= c.duration {
		c.pose = c.end
		c.active = false
		return c.pose, true
	}

	t := float64(c.elapsed) / float64(c.duration)
	c.pose = c.start.Lerp(c.end, EaseInOutCubic(t))
	return c.pose, true
}

func (c *Controller) destination(t *Target) domain.ViewPose {
	if t == nil {
		return Overview(c.profile)
	}
	return Frame(c.profile, *t).Pose
}
