package raster

import "github.com/oxy-go/soft/vecmath"

// SignedArea returns the z-component of (v1-v0) x (v2-v0) in
// screen space, matching spec.md §4.6's back-face test.
func SignedArea(v0, v1, v2 vecmath.Vec4) float32 {
	e1x, e1y := v1.X-v0.X, v1.Y-v0.Y
	e2x, e2y := v2.X-v0.X, v2.Y-v0.Y
	return e1x*e2y - e1y*e2x
}

// FrontFacing reports whether the screen-space triangle winds
// front-facing (positive signed area), per spec.md §4.6.
func FrontFacing(v0, v1, v2 vecmath.Vec4) bool {
	return SignedArea(v0, v1, v2) > 0
}

// ShouldCull reports whether a triangle should be discarded given the
// current cullFace setting.
func ShouldCull(frontFacing, cullFaceEnabled bool) bool {
	return cullFaceEnabled && !frontFacing
}

// IsDegenerate reports whether |signed area| is below the geometry
// degeneracy epsilon (spec.md §7 "Geometry degeneracy").
func IsDegenerate(v0, v1, v2 vecmath.Vec4) bool {
	area := SignedArea(v0, v1, v2)
	if area < 0 {
		area = -area
	}
	return area < clipEpsilon
}
