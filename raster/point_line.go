package raster

import (
	"math"

	"github.com/oxy-go/soft/internal/workpool"
	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/vecmath"
)

// RasterizePoint splats a POINT-mode vertex as an axis-aligned square of
// side max(1, pointSize) centered on the vertex's screen position onto
// pool, shading each covered pixel once (spec.md §4.7 "POINT"). Every
// sample slot of a multisampled target receives the same shaded color,
// since a point carries no sub-pixel coverage information of its own.
func RasterizePoint(pool *workpool.Pool, prog *shader.Program, v ScreenVertex, frontFacing bool, target Target, state DrawState) {
	size := v.PointSize
	if size < 1 {
		size = 1
	}
	half := size / 2

	w, h := target.dims()
	minX := clampInt(int(math.Floor(float64(v.ScreenPos.X-half))), 0, w-1)
	maxX := clampInt(int(math.Ceil(float64(v.ScreenPos.X+half)))-1, 0, w-1)
	minY := clampInt(int(math.Floor(float64(v.ScreenPos.Y-half))), 0, h-1)
	maxY := clampInt(int(math.Ceil(float64(v.ScreenPos.Y+half)))-1, 0, h-1)
	if minX > maxX || minY > maxY {
		return
	}

	pool.Push(func(threadID int) {
		quadCtx := newPixelQuadContext(prog)
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				shadeSplatPixel(quadCtx, x, y, v.ScreenPos.Z, v.Varyings, frontFacing, target, state)
			}
		}
	})
}

// RasterizeLine walks the Bresenham path between v0 and v1's screen
// positions, linearly interpolating depth and varyings at each step,
// and expands to state.LineWidth by splatting a point-sized square at
// every step when the width exceeds one pixel (spec.md §4.7 "LINE").
func RasterizeLine(pool *workpool.Pool, prog *shader.Program, v0, v1 ScreenVertex, frontFacing bool, target Target, state DrawState) {
	x0 := int(math.Round(float64(v0.ScreenPos.X)))
	y0 := int(math.Round(float64(v0.ScreenPos.Y)))
	x1 := int(math.Round(float64(v1.ScreenPos.X)))
	y1 := int(math.Round(float64(v1.ScreenPos.Y)))

	width := state.LineWidth
	if width < 1 {
		width = 1
	}

	pool.Push(func(threadID int) {
		quadCtx := newPixelQuadContext(prog)
		dx := (x1 - x0)
		dy := (y1 - y0)
		errAcc := 0
		x, y := x0, y0
		absDx, absDy := absInt(dx), absInt(dy)
		sx, sy := sign(dx), sign(dy)
		steep := absDy > absDx
		primaryLen := absDx
		if steep {
			primaryLen = absDy
		}
		if primaryLen == 0 {
			primaryLen = 1
		}

		for i := 0; i <= primaryLen; i++ {
			t := float32(i) / float32(primaryLen)
			z := v0.ScreenPos.Z + (v1.ScreenPos.Z-v0.ScreenPos.Z)*t
			varyings := lerpBytesAsFloat32(v0.Varyings, v1.Varyings, t)
			splatLineSample(quadCtx, x, y, width, z, varyings, frontFacing, target, state)

			if steep {
				y += sy
				errAcc += absDx
				if 2*errAcc >= absDy {
					x += sx
					errAcc -= absDy
				}
			} else {
				x += sx
				errAcc += absDy
				if 2*errAcc >= absDx {
					y += sy
					errAcc -= absDx
				}
			}
		}
	})
}

func splatLineSample(quadCtx *pixelQuadContext, cx, cy int, width float32, z float32, varyings []byte, frontFacing bool, target Target, state DrawState) {
	half := int(width / 2)
	w, h := target.dims()
	for oy := -half; oy <= half; oy++ {
		for ox := -half; ox <= half; ox++ {
			x, y := cx+ox, cy+oy
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			shadeSplatPixel(quadCtx, x, y, z, varyings, frontFacing, target, state)
		}
	}
}

func shadeSplatPixel(quadCtx *pixelQuadContext, x, y int, z float32, varyings []byte, frontFacing bool, target Target, state DrawState) {
	if z < target.AbsMinDepth || z > target.AbsMaxDepth {
		return
	}
	// A point/line splat has no 2x2 quad of its own; every slot gets the
	// same varyings, so a derivative computed off QuadVaryings comes out
	// zero rather than reading stale neighbor data.
	for i := range quadCtx.scratch {
		copy(quadCtx.scratch[i], varyings)
	}

	prog := quadCtx.program
	bi := prog.BuiltIns()
	bi.FrontFacing = frontFacing
	bi.DerivativeCtx = quadCornerOrder
	bi.FragCoord = vecmath.Vec4{X: float32(x) + 0.5, Y: float32(y) + 0.5, Z: z, W: 1}

	ctx := &shader.ExecContext{
		Varyings:     quadCtx.scratch[0],
		QuadVaryings: quadCtx.scratch,
	}
	prog.ExecFragmentShader(ctx)

	if bi.Discard {
		return
	}
	fragColor := bi.FragColor.Clamp01()

	samples := 1
	if !target.Color.Empty() {
		samples = target.Color.SampleCount()
	} else if !target.Depth.Empty() {
		samples = target.Depth.SampleCount()
	}

	for s := 0; s < samples; s++ {
		depthPass := true
		if state.DepthTest && !target.Depth.Empty() {
			stored := target.Depth.GetDepthSample(x, y, s)
			depthPass = DepthTestPasses(state.DepthFunc, z, stored)
		}
		if !depthPass {
			continue
		}
		if state.DepthTest && state.DepthMask && !target.Depth.Empty() {
			target.Depth.SetDepthSample(x, y, s, z)
		}

		var outColor vecmath.Vec4
		if state.Blend && !target.Color.Empty() {
			dst := rgba8ToVec4(target.Color.GetColorSample(x, y, s))
			outColor = Blend(state.BlendParams, fragColor, dst)
		} else {
			outColor = fragColor.Clamp01()
		}
		if !target.Color.Empty() {
			target.Color.SetColorSample(x, y, s, vec4ToRGBA8(outColor))
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

