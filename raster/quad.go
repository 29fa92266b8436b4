package raster

import (
	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/vecmath"
)

// samplePositions1x is the single-sample-per-pixel offset used when
// rasterSamples == 1 (spec.md §4.7 step 3a).
var samplePositions1x = [1]vecmath.Vec2{{X: 0.5, Y: 0.5}}

// samplePositions4x is the rotated-grid MSAA offset set; the pixel-center
// position used only for shading is kept apart in shadingCenterOffset
// (spec.md §4.7 step 3a).
var samplePositions4x = [4]vecmath.Vec2{
	{X: 0.375, Y: 0.875},
	{X: 0.875, Y: 0.625},
	{X: 0.125, Y: 0.375},
	{X: 0.625, Y: 0.125},
}

var shadingCenterOffset = vecmath.Vec2{X: 0.5, Y: 0.5}

// quadCornerOrder is the fixed p0..p3 layout shadeQuad fills a pixel
// quad's four varying slots in (top-left, top-right, bottom-left,
// bottom-right). Written into BuiltIns.DerivativeCtx on every fragment
// invocation so a shader can address ExecContext.QuadVaryings by corner
// instead of by hard-coded index.
var quadCornerOrder = [4]int{0, 1, 2, 3}

// barycentric computes (bc, ok) for point p against triangle v0,v1,v2
// using the SIMD-equivalent cross-product test of spec.md §4.7 step 3b.
// ok is false when the triangle is degenerate at this scale (|u.z|<eps)
// or when any barycentric component is negative (point outside).
func barycentric(v0, v1, v2, p vecmath.Vec2) (bc vecmath.Vec3, ok bool) {
	a := vecmath.Vec3{X: v2.X - v0.X, Y: v1.X - v0.X, Z: v0.X - p.X}
	b := vecmath.Vec3{X: v2.Y - v0.Y, Y: v1.Y - v0.Y, Z: v0.Y - p.Y}
	u := a.Cross(b)
	if u.Z > -clipEpsilon && u.Z < clipEpsilon {
		return vecmath.Vec3{}, false
	}
	bc = vecmath.Vec3{
		X: 1 - (u.X+u.Y)/u.Z,
		Y: u.Y / u.Z,
		Z: u.X / u.Z,
	}
	if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
		return bc, false
	}
	return bc, true
}

// perspectiveCorrect scales barycentric weights by each vertex's
// stored 1/w and renormalizes, matching spec.md §4.7 step 3e /
// §8's perspective-correct interpolation property.
func perspectiveCorrect(bc vecmath.Vec3, w0, w1, w2 float32) vecmath.Vec3 {
	pc := vecmath.Vec3{X: bc.X * w0, Y: bc.Y * w1, Z: bc.Z * w2}
	sum := pc.X + pc.Y + pc.Z
	if sum == 0 {
		return pc
	}
	inv := 1 / sum
	return pc.Scale(inv)
}

// interpolateVaryings computes out[i] = bc.x*a[i] + bc.y*b[i] + bc.z*c[i]
// over the three vertices' varying byte buffers, treated as float32
// arrays. It forwards to InterpolateVaryings in simd_interp.go, which
// picks among the scalar and aligned wide-lane tiers of spec.md §4.7's
// SIMD/alignment-gated interpolator.
func interpolateVaryings(dst []byte, a, b, c []byte, bc vecmath.Vec3) {
	InterpolateVaryings(dst, a, b, c, bc)
}

// pixelQuadContext is the private per-tile scratch a worker uses while
// shading one 2x2 pixel quad: a cloned program (so uniform-lookup and
// built-in state don't contend across tiles), and a small varyings
// scratch pool sized to 4 slots (spec.md §5 "aligned varyings scratch
// pool sized to 4 · alignedVaryingsCount floats").
type pixelQuadContext struct {
	program      *shader.Program
	varyingsSize int
	scratch      [4][]byte
}

func newPixelQuadContext(prog *shader.Program) *pixelQuadContext {
	ctx := &pixelQuadContext{
		program:      prog.Clone(),
		varyingsSize: prog.VaryingsSize(),
	}
	for i := range ctx.scratch {
		ctx.scratch[i] = make([]byte, ctx.varyingsSize)
	}
	return ctx
}
