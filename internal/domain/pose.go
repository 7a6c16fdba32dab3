package domain

import v3 "github.com/deadsy/sdfx/vec/v3"

// ViewPose is the viewpoint in world space. It is a value: the framing
// controller replaces it wholesale on every animation tick.
type ViewPose struct {
	Position v3.Vec `json:"position"`
	LookAt   v3.Vec `json:"look_at"`
}

// Lerp interpolates linearly between two poses
func (p ViewPose) Lerp(to ViewPose, t float64) ViewPose {
	return ViewPose{
		Position: LerpVec(p.Position, to.Position, t),
		LookAt:   LerpVec(p.LookAt, to.LookAt, t),
	}
}

// Equals compares two poses within tolerance
func (p ViewPose) Equals(o ViewPose, tol float64) bool {
	return p.Position.Sub(o.Position).Length() <= tol &&
		p.LookAt.Sub(o.LookAt).Length() <= tol
}

// LerpVec interpolates linearly between a and b
func LerpVec(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
