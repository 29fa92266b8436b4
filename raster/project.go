package raster

import "github.com/oxy-go/soft/vecmath"

// Viewport holds the derived per-viewport constants used at projection
// time, grounded on RendererSoft's setViewport (spec.md §4.6).
type Viewport struct {
	X, Y, W, H         int
	MinDepth, MaxDepth float32

	innerP vecmath.Vec4
	innerO vecmath.Vec4

	AbsMinDepth, AbsMaxDepth float32
}

// NewViewport computes innerP/innerO/absMin/MaxDepth from the given
// screen rectangle and depth range.
func NewViewport(x, y, w, h int, minDepth, maxDepth float32) Viewport {
	vp := Viewport{X: x, Y: y, W: w, H: h, MinDepth: minDepth, MaxDepth: maxDepth}
	vp.innerP = vecmath.Vec4{X: float32(w) / 2, Y: float32(h) / 2, Z: maxDepth - minDepth, W: 1}
	vp.innerO = vecmath.Vec4{X: float32(x) + float32(w)/2, Y: float32(y) + float32(h)/2, Z: minDepth, W: 0}
	vp.AbsMinDepth, vp.AbsMaxDepth = minDepth, maxDepth
	if vp.AbsMinDepth > vp.AbsMaxDepth {
		vp.AbsMinDepth, vp.AbsMaxDepth = vp.AbsMaxDepth, vp.AbsMinDepth
	}
	return vp
}

// ScreenVertex is a post-projection vertex: screen-space xyz, inverse w
// (retained for perspective-correct interpolation), and its varyings.
type ScreenVertex struct {
	ScreenPos vecmath.Vec4 // x,y screen pixels; z depth; w = 1/clipPos.w
	PointSize float32
	Varyings  []byte
}

// PerspectiveDivide divides clip-space xyz by w, then overwrites w with
// 1/w, matching spec.md §4.6.
func PerspectiveDivide(clipPos vecmath.Vec4) vecmath.Vec4 {
	invW := float32(1) / clipPos.W
	return vecmath.Vec4{
		X: clipPos.X * invW,
		Y: clipPos.Y * invW,
		Z: clipPos.Z * invW,
		W: invW,
	}
}

// ApplyViewport maps a perspective-divided position into screen space:
// fragPos = fragPos·innerP + innerO (w untouched, still 1/clipW).
func ApplyViewport(fragPos vecmath.Vec4, vp Viewport) vecmath.Vec4 {
	return vecmath.Vec4{
		X: fragPos.X*vp.innerP.X + vp.innerO.X,
		Y: fragPos.Y*vp.innerP.Y + vp.innerO.Y,
		Z: fragPos.Z*vp.innerP.Z + vp.innerO.Z,
		W: fragPos.W,
	}
}

// ProjectVertex runs the perspective divide and viewport transform on a
// clipped vertex, producing a ScreenVertex.
func ProjectVertex(v ClippedVertex, vp Viewport) ScreenVertex {
	divided := PerspectiveDivide(v.ClipPos)
	screen := ApplyViewport(divided, vp)
	return ScreenVertex{ScreenPos: screen, PointSize: v.PointSize, Varyings: v.Varyings}
}

// PostVertexProcess returns the hook ClipLine runs on both of its output
// endpoints, synthesized or not: it recomputes the clip fields, then runs
// perspective-divide + viewport and stores the result back into ClipPos,
// so both endpoints come out in screen space. Only the line-clipping
// path uses it.
func PostVertexProcess(vp Viewport) func(*ClippedVertex) {
	return func(v *ClippedVertex) {
		recomputeClipFields(v)
		divided := PerspectiveDivide(v.ClipPos)
		v.ClipPos = ApplyViewport(divided, vp)
	}
}
