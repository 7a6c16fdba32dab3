// Package visibility decides which node labels are shown for the current
// viewpoint: a label must project on-screen and must not crowd a label
// that was accepted before it.
package visibility

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"orbitview/internal/domain"
)

// NDC is a point in normalized device coordinates
type NDC struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the screen-space distance between two points
func (a NDC) Distance(b NDC) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Lens describes the perspective projection
type Lens struct {
	FieldOfView float64 // vertical, degrees
	Aspect      float64 // width / height
	Near        float64
	Far         float64
}

// ViewProjection is the combined projection*view transform. Valid is
// false until both a lens and a non-degenerate pose are known.
type ViewProjection struct {
	Matrix mgl64.Mat4
	Valid  bool
}

var worldUp = mgl64.Vec3{0, 1, 0}

// NewViewProjection builds the transform for a pose seen through a lens.
// It never fails; unusable input produces an invalid transform.
func NewViewProjection(pose domain.ViewPose, lens Lens) ViewProjection {
	if lens.Aspect <= 0 || lens.FieldOfView <= 0 || lens.FieldOfView >= 180 ||
		lens.Near <= 0 || lens.Far <= lens.Near {
		return ViewProjection{}
	}

	eye := toMgl(pose.Position)
	center := toMgl(pose.LookAt)
	dir := center.Sub(eye)
	if dir.Len() < 1e-9 {
		return ViewProjection{}
	}

	up := worldUp
	// Looking straight up or down: any horizontal up vector works
	if dir.Normalize().Cross(up).Len() < 1e-9 {
		up = mgl64.Vec3{0, 0, -1}
	}

	proj := mgl64.Perspective(mgl64.DegToRad(lens.FieldOfView), lens.Aspect, lens.Near, lens.Far)
	view := mgl64.LookAtV(eye, center, up)
	return ViewProjection{Matrix: proj.Mul4(view), Valid: true}
}

// ProjectToScreen maps a world point to NDC. The second result is true
// when the point is in front of the viewpoint and inside the view
// volume: x and y in [-1,1] and depth in [-1,1].
func ProjectToScreen(point v3.Vec, viewProj mgl64.Mat4) (NDC, bool) {
	clip := viewProj.Mul4x1(mgl64.Vec4{point.X, point.Y, point.Z, 1})
	w := clip.W()
	if w <= 0 {
		return NDC{}, false
	}

	p := NDC{X: clip.X() / w, Y: clip.Y() / w, Z: clip.Z() / w}
	onScreen := p.X >= -1 && p.X <= 1 &&
		p.Y >= -1 && p.Y <= 1 &&
		p.Z >= -1 && p.Z <= 1
	return p, onScreen
}

func toMgl(v v3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
