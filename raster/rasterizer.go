package raster

import (
	"math"

	"github.com/oxy-go/soft/framebuffer"
	"github.com/oxy-go/soft/internal/mathutil"
	"github.com/oxy-go/soft/internal/rlog"
	"github.com/oxy-go/soft/internal/workpool"
	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/vecmath"
)

// DrawState is the subset of pipeline state the rasterizer itself
// consumes. It mirrors pipeline.State's raster-relevant fields; kept
// separate (rather than importing package pipeline directly) because
// pipeline already imports raster for BlendParams/DepthFunc, and Go
// forbids the cycle. The device/driver layer translates a pipeline.State
// into a DrawState once per draw call.
type DrawState struct {
	Blend       bool
	BlendParams BlendParams

	DepthTest bool
	DepthMask bool
	DepthFunc DepthFunc

	CullFace  bool
	LineWidth float32
}

// Params configures a single draw's rasterization behavior, matching
// the configuration options of spec.md §6.
type Params struct {
	BlockSize int  // tile side in pixels, default 32
	Samples   int  // 1 or 4
	EarlyZ    bool // enable pre-shading depth probe
}

// DefaultParams matches spec.md §6's defaults.
func DefaultParams() Params {
	return Params{BlockSize: 32, Samples: 1, EarlyZ: true}
}

func samplePositions(n int) []vecmath.Vec2 {
	if n == 4 {
		return samplePositions4x[:]
	}
	return samplePositions1x[:]
}

// Target bundles the color/depth attachments and absolute depth range a
// draw writes into.
type Target struct {
	Color                  *framebuffer.Attachment
	Depth                  *framebuffer.Attachment
	AbsMinDepth, AbsMaxDepth float32
}

func barycentricRaw(v0, v1, v2, p vecmath.Vec2) vecmath.Vec3 {
	a := vecmath.Vec3{X: v2.X - v0.X, Y: v1.X - v0.X, Z: v0.X - p.X}
	b := vecmath.Vec3{X: v2.Y - v0.Y, Y: v1.Y - v0.Y, Z: v0.Y - p.Y}
	u := a.Cross(b)
	if u.Z > -clipEpsilon && u.Z < clipEpsilon {
		return vecmath.Vec3{X: 1}
	}
	return vecmath.Vec3{
		X: 1 - (u.X+u.Y)/u.Z,
		Y: u.Y / u.Z,
		Z: u.X / u.Z,
	}
}

// RasterizeTriangle rasterizes tri into target using prog and state,
// scheduling one task per tile onto pool. Grounded on the tiled 2x2
// pixel-quad description of RendererSoft's triangle path.
//
// Parameters:
//   - pool: worker pool a tile task is Push'd onto per tile
//   - prog: shader program cloned once per tile task inside newPixelQuadContext
//   - tri: the triangle's three screen-space vertices, already clipped and projected
//   - frontFacing: winding-order result computed by the caller
//   - target: color/depth attachments and absolute depth range
//   - state: rasterizer-relevant subset of the active pipeline state
//   - params: tile size, sample count, and early-Z toggle for this draw
//   - prof: optional throughput profiler; TileDone is a no-op if nil
func RasterizeTriangle(pool *workpool.Pool, prog *shader.Program, tri [3]ScreenVertex, frontFacing bool, target Target, state DrawState, params Params, prof *rlog.Profiler) {
	v0, v1, v2 := tri[0], tri[1], tri[2]
	minX, minY, maxX, maxY := triangleBounds(v0, v1, v2, target)
	if minX > maxX || minY > maxY {
		return
	}

	blockSize := params.BlockSize
	if blockSize <= 0 {
		blockSize = 32
	}

	for tileY := minY; tileY <= maxY; tileY += blockSize {
		for tileX := minX; tileX <= maxX; tileX += blockSize {
			tx0, ty0 := tileX, tileY
			tx1 := minInt(tx0+blockSize-1, maxX)
			ty1 := minInt(ty0+blockSize-1, maxY)

			pool.Push(func(threadID int) {
				quadCtx := newPixelQuadContext(prog)
				rasterizeTile(quadCtx, v0, v1, v2, frontFacing, target, state, params, tx0, ty0, tx1, ty1)
				prof.TileDone()
			})
		}
	}
}

func triangleBounds(v0, v1, v2 ScreenVertex, target Target) (minX, minY, maxX, maxY int) {
	w, h := target.dims()
	fMinX := minf(v0.ScreenPos.X, v1.ScreenPos.X, v2.ScreenPos.X) - 0.5
	fMaxX := maxf(v0.ScreenPos.X, v1.ScreenPos.X, v2.ScreenPos.X) + 0.5
	fMinY := minf(v0.ScreenPos.Y, v1.ScreenPos.Y, v2.ScreenPos.Y) - 0.5
	fMaxY := maxf(v0.ScreenPos.Y, v1.ScreenPos.Y, v2.ScreenPos.Y) + 0.5

	minX = clampInt(int(math.Floor(float64(fMinX))), 0, w-1)
	maxX = clampInt(int(math.Ceil(float64(fMaxX))), 0, w-1)
	minY = clampInt(int(math.Floor(float64(fMinY))), 0, h-1)
	maxY = clampInt(int(math.Ceil(float64(fMaxY))), 0, h-1)
	return
}

func (t Target) dims() (int, int) {
	if !t.Color.Empty() {
		return t.Color.Dims()
	}
	if !t.Depth.Empty() {
		return t.Depth.Dims()
	}
	return 0, 0
}

func rasterizeTile(quadCtx *pixelQuadContext, v0, v1, v2 ScreenVertex, frontFacing bool, target Target, state DrawState, params Params, tx0, ty0, tx1, ty1 int) {
	samples := samplePositions(params.Samples)
	v0xy := vecmath.Vec2{X: v0.ScreenPos.X, Y: v0.ScreenPos.Y}
	v1xy := vecmath.Vec2{X: v1.ScreenPos.X, Y: v1.ScreenPos.Y}
	v2xy := vecmath.Vec2{X: v2.ScreenPos.X, Y: v2.ScreenPos.Y}

	for y := ty0; y <= ty1; y += 2 {
		for x := tx0; x <= tx1; x += 2 {
			shadeQuad(quadCtx, v0, v1, v2, v0xy, v1xy, v2xy, frontFacing, target, state, params, samples, x, y, tx1, ty1)
		}
	}
}

type quadSampleResult struct {
	covered bool
	depth   float32
}

func shadeQuad(quadCtx *pixelQuadContext, v0, v1, v2 ScreenVertex, v0xy, v1xy, v2xy vecmath.Vec2, frontFacing bool, target Target, state DrawState, params Params, samples []vecmath.Vec2, qx, qy, tx1, ty1 int) {
	var quadCoverage [4]bool
	var quadResults [4][]quadSampleResult

	for i := 0; i < 4; i++ {
		dx, dy := i%2, i/2
		px, py := qx+dx, qy+dy
		if px > tx1 || py > ty1 {
			continue
		}

		results := make([]quadSampleResult, len(samples))
		coverage := 0
		for s, off := range samples {
			p := vecmath.Vec2{X: float32(px) + off.X, Y: float32(py) + off.Y}
			bc, ok := barycentric(v0xy, v1xy, v2xy, p)
			if !ok {
				continue
			}
			z := bc.X*v0.ScreenPos.Z + bc.Y*v1.ScreenPos.Z + bc.Z*v2.ScreenPos.Z
			if z < target.AbsMinDepth || z > target.AbsMaxDepth {
				continue
			}
			results[s] = quadSampleResult{covered: true, depth: z}
			coverage++
		}
		quadResults[i] = results
		quadCoverage[i] = coverage > 0
	}

	if params.EarlyZ && state.DepthTest && !target.Depth.Empty() {
		for i := 0; i < 4; i++ {
			if !quadCoverage[i] {
				continue
			}
			dx, dy := i%2, i/2
			px, py := qx+dx, qy+dy
			survived := 0
			for s := range quadResults[i] {
				r := &quadResults[i][s]
				if !r.covered {
					continue
				}
				stored := target.Depth.GetDepthSample(px, py, s)
				if !DepthTestPasses(state.DepthFunc, r.depth, stored) {
					r.covered = false
					continue
				}
				survived++
			}
			quadCoverage[i] = survived > 0
		}
	}

	shadingCenter := vecmath.Vec2{}
	for i := 0; i < 4; i++ {
		dx, dy := i%2, i/2
		px, py := qx+dx, qy+dy
		if px > tx1 || py > ty1 {
			continue
		}
		shadingCenter = vecmath.Vec2{X: float32(px) + shadingCenterOffset.X, Y: float32(py) + shadingCenterOffset.Y}
		shadingBC := barycentricRaw(v0xy, v1xy, v2xy, shadingCenter)
		shadingBCPC := perspectiveCorrect(shadingBC, v0.ScreenPos.W, v1.ScreenPos.W, v2.ScreenPos.W)
		interpolateVaryings(quadCtx.scratch[i], v0.Varyings, v1.Varyings, v2.Varyings, shadingBCPC)
	}

	for i := 0; i < 4; i++ {
		if !quadCoverage[i] {
			continue
		}
		dx, dy := i%2, i/2
		px, py := qx+dx, qy+dy
		if px > tx1 || py > ty1 {
			continue
		}
		shadeFragment(quadCtx, i, px, py, frontFacing, target, state, quadResults[i])
	}
}

func shadeFragment(quadCtx *pixelQuadContext, quadIndex, px, py int, frontFacing bool, target Target, state DrawState, samples []quadSampleResult) {
	prog := quadCtx.program

	// FrontFacing, FragCoord, and DerivativeCtx are inputs the fragment
	// stage reads; they must land on BuiltIns before Main runs, not
	// after.
	bi := prog.BuiltIns()
	bi.FrontFacing = frontFacing
	bi.DerivativeCtx = quadCornerOrder
	bi.FragCoord = vecmath.Vec4{X: float32(px) + 0.5, Y: float32(py) + 0.5, Z: fragDepth(samples), W: 1}

	ctx := &shader.ExecContext{
		Varyings:     quadCtx.scratch[quadIndex],
		QuadVaryings: quadCtx.scratch,
	}
	prog.ExecFragmentShader(ctx)

	if bi.Discard {
		return
	}
	fragColor := bi.FragColor.Clamp01()

	for s, r := range samples {
		if !r.covered {
			continue
		}
		depthPass := true
		if state.DepthTest && !target.Depth.Empty() {
			stored := target.Depth.GetDepthSample(px, py, s)
			depthPass = DepthTestPasses(state.DepthFunc, r.depth, stored)
		}
		if !depthPass {
			continue
		}
		if state.DepthTest && state.DepthMask && !target.Depth.Empty() {
			target.Depth.SetDepthSample(px, py, s, r.depth)
		}

		var outColor vecmath.Vec4
		if state.Blend && !target.Color.Empty() {
			dst := rgba8ToVec4(target.Color.GetColorSample(px, py, s))
			outColor = Blend(state.BlendParams, fragColor, dst)
		} else {
			outColor = fragColor.Clamp01()
		}
		if !target.Color.Empty() {
			target.Color.SetColorSample(px, py, s, vec4ToRGBA8(outColor))
		}
	}
}

// fragDepth picks the depth of the first covered sample in samples, for
// populating BuiltIns.FragCoord.Z. shadeQuad only calls shadeFragment for
// a pixel with at least one covered sample (early-Z rejection included),
// so the fallback after the loop is reached only by other callers.
func fragDepth(samples []quadSampleResult) float32 {
	for _, r := range samples {
		if r.covered {
			return r.depth
		}
	}
	return 0
}

func minf(a, b, c float32) float32 {
	return mathutil.Min(mathutil.Min(a, b), c)
}

func maxf(a, b, c float32) float32 {
	return mathutil.Max(mathutil.Max(a, b), c)
}

func minInt(a, b int) int {
	return mathutil.Min(a, b)
}

func clampInt(v, lo, hi int) int {
	return mathutil.Clamp(v, lo, hi)
}
