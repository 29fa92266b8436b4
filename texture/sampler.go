package texture

import (
	"encoding/binary"
	"math"

	"github.com/oxy-go/soft/internal/imgbuf"
	"github.com/oxy-go/soft/internal/mathutil"
	"github.com/oxy-go/soft/vecmath"
)

// WrapMode controls how out-of-range texture coordinates are resolved.
type WrapMode int

const (
	WrapRepeat WrapMode = iota
	WrapMirroredRepeat
	WrapClampToEdge
	WrapClampToBorder
)

// FilterMode controls how a texel value is reconstructed from
// neighboring stored samples, including the four mipmap-combined modes.
type FilterMode int

const (
	FilterNearest FilterMode = iota
	FilterLinear
	FilterNearestMipmapNearest
	FilterLinearMipmapNearest
	FilterNearestMipmapLinear
	FilterLinearMipmapLinear
)

// SamplerDesc is the immutable sampling configuration bound to a
// texture, grounded on original_source's SamplerDesc/BaseSampler.
type SamplerDesc struct {
	FilterMin   FilterMode
	FilterMag   FilterMode
	WrapS       WrapMode
	WrapT       WrapMode
	WrapR       WrapMode
	BorderColor BorderColor
}

// DefaultSamplerDesc matches the source's field defaults
// (Wrap_CLAMP_TO_EDGE, Filter_LINEAR).
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		FilterMin: FilterLinear,
		FilterMag: FilterLinear,
		WrapS:     WrapClampToEdge,
		WrapT:     WrapClampToEdge,
		WrapR:     WrapClampToEdge,
	}
}

func borderRGBA(b BorderColor) RGBA8 {
	switch b {
	case BorderWhite:
		return RGBA8{255, 255, 255, 255}
	default:
		return RGBA8{0, 0, 0, 0}
	}
}

func wrapCoord(i, n int, wrap WrapMode) (int, bool) {
	switch wrap {
	case WrapRepeat:
		i = ((i % n) + n) % n
		return i, true
	case WrapMirroredRepeat:
		period := 2 * n
		i = ((i % period) + period) % period
		if i >= n {
			i = period - 1 - i
		}
		return i, true
	case WrapClampToEdge:
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return i, true
	case WrapClampToBorder:
		if i < 0 || i >= n {
			return 0, false
		}
		return i, true
	default:
		return i, true
	}
}

// PixelWithWrap fetches buffer[x,y] after resolving x through wrapX and
// y through wrapY, returning border when either coordinate falls
// outside the buffer under WrapClampToBorder. Grounded on
// BaseSampler<T>::pixelWithWrapMode; the source resolves S and T
// independently, so this takes one WrapMode per axis rather than
// applying a single mode to both.
//
// Parameters:
//   - buf: source RGBA8 buffer
//   - x, y: unwrapped texel coordinates, may be negative or >= width/height
//   - wrapX, wrapY: wrap mode applied to x and y respectively
//   - border: color returned for an out-of-range coordinate under WrapClampToBorder
//
// Returns:
//   - RGBA8: the resolved texel, or border
func PixelWithWrap(buf *imgbuf.Buffer[RGBA8], x, y int, wrapX, wrapY WrapMode, border RGBA8) RGBA8 {
	w, h := buf.Width(), buf.Height()
	if w == 0 || h == 0 {
		return RGBA8{}
	}
	xw, ok := wrapCoord(x, w, wrapX)
	if !ok {
		return border
	}
	yw, ok := wrapCoord(y, h, wrapY)
	if !ok {
		return border
	}
	px, ok := buf.Get(xw, yw)
	if !ok {
		return RGBA8{}
	}
	return px
}

func lerpChannel(a, b uint8, t float32) uint8 {
	return uint8(vecmath.Clamp(float32(a)+(float32(b)-float32(a))*t, 0, 255))
}

func lerpRGBA(a, b RGBA8, t float32) RGBA8 {
	return RGBA8{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
		A: lerpChannel(a.A, b.A, t),
	}
}

// SampleNearest reads the single nearest texel to uv (in [0,1]² texture
// space, no offset applied to wrapping), grounded on
// BaseSampler<T>::sampleNearest. wrapS resolves the U axis, wrapT the V
// axis.
//
// Parameters:
//   - buf: mip level to sample
//   - uv: texture coordinate in [0,1]²
//   - wrapS, wrapT: wrap mode for the U and V axes respectively
//   - offset: integer texel offset added after uv is scaled to texel space
//   - border: color returned under WrapClampToBorder
//
// Returns:
//   - RGBA8: the nearest texel, or border
func SampleNearest(buf *imgbuf.Buffer[RGBA8], uv vecmath.Vec2, wrapS, wrapT WrapMode, offset [2]int, border RGBA8) RGBA8 {
	w, h := buf.Width(), buf.Height()
	x := int(math.Floor(float64(uv.X*float32(w)))) + offset[0]
	y := int(math.Floor(float64(uv.Y*float32(h)))) + offset[1]
	return PixelWithWrap(buf, x, y, wrapS, wrapT, border)
}

// SampleBilinear reads a 2x2 texel neighborhood around uv and linearly
// interpolates, grounded on BaseSampler<T>::sampleBilinear /
// samplePixelBilinear. wrapS resolves the U axis, wrapT the V axis.
func SampleBilinear(buf *imgbuf.Buffer[RGBA8], uv vecmath.Vec2, wrapS, wrapT WrapMode, offset [2]int, border RGBA8) RGBA8 {
	w, h := buf.Width(), buf.Height()
	fx := uv.X*float32(w) - 0.5
	fy := uv.Y*float32(h) - 0.5

	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	x0 += offset[0]
	y0 += offset[1]

	c00 := PixelWithWrap(buf, x0, y0, wrapS, wrapT, border)
	c10 := PixelWithWrap(buf, x0+1, y0, wrapS, wrapT, border)
	c01 := PixelWithWrap(buf, x0, y0+1, wrapS, wrapT, border)
	c11 := PixelWithWrap(buf, x0+1, y0+1, wrapS, wrapT, border)

	top := lerpRGBA(c00, c10, tx)
	bottom := lerpRGBA(c01, c11, tx)
	return lerpRGBA(top, bottom, ty)
}

// GenerateMipmaps (re)allocates a full mip chain for layer above its
// existing level 0, and bilinearly downsamples into each level when
// sample is true. Grounded on BaseSampler<T>::generateMipmaps.
func GenerateMipmaps[T any](layer *TextureImage[T], sample bool) {
	if layer.Empty() {
		return
	}
	level0 := layer.Levels[0]
	width, height := level0.Width(), level0.Height()

	levelCount := int(math.Floor(math.Log2(float64(mathutil.Max(width, height))))) + 1
	levels := make([]*imgbuf.Buffer[T], levelCount)
	levels[0] = level0
	for level := 1; level < levelCount; level++ {
		lw := mathutil.Max(1, width>>uint(level))
		lh := mathutil.Max(1, height>>uint(level))
		levels[level] = imgbuf.NewBuffer[T](lw, lh, imgbuf.LinearLayout{})
	}
	layer.Levels = levels

	if !sample {
		return
	}
	for level := 1; level < levelCount; level++ {
		downsampleBilinear(layer.Levels[level], layer.Levels[level-1])
	}
}

// downsampleBilinear fills dst by bilinearly sampling src at dst's
// resolution, grounded on BaseSampler<T>::sampleBufferBilinear.
func downsampleBilinear[T any](dst, src *imgbuf.Buffer[T]) {
	dw, dh := dst.Width(), dst.Height()
	sw, sh := src.Width(), src.Height()
	if dw == 0 || dh == 0 || sw == 0 || sh == 0 {
		return
	}
	for y := 0; y < dh; y++ {
		v := (float32(y) + 0.5) / float32(dh)
		for x := 0; x < dw; x++ {
			u := (float32(x) + 0.5) / float32(dw)
			dst.Set(x, y, sampleGenericBilinear(src, u, v))
		}
	}
}

// sampleGenericBilinear performs the same 2x2-tap, tx/ty-weighted
// bilinear reconstruction as SampleBilinear, generalized over the mip
// storage's pixel type. Go generics give no arithmetic operators over
// an arbitrary T, so the blend itself is dispatched by a type switch
// over the two concrete pixel types this renderer's mip chains ever
// hold (RGBA8 color levels, float32 depth levels) — mirroring the
// source's separate sampleBufferBilinear<RGBA8>/sampleBufferBilinear
// <float> template instantiations rather than a single generic body.
func sampleGenericBilinear[T any](buf *imgbuf.Buffer[T], u, v float32) T {
	w, h := buf.Width(), buf.Height()
	fx := u*float32(w) - 0.5
	fy := v*float32(h) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	clampX := func(x int) int { return mathutil.Clamp(x, 0, w-1) }
	clampY := func(y int) int { return mathutil.Clamp(y, 0, h-1) }

	c00, _ := buf.Get(clampX(x0), clampY(y0))
	c10, _ := buf.Get(clampX(x0+1), clampY(y0))
	c01, _ := buf.Get(clampX(x0), clampY(y0+1))
	c11, _ := buf.Get(clampX(x0+1), clampY(y0+1))

	switch c00 := any(c00).(type) {
	case RGBA8:
		c10, c01, c11 := any(c10).(RGBA8), any(c01).(RGBA8), any(c11).(RGBA8)
		top := lerpRGBA(c00, c10, tx)
		bottom := lerpRGBA(c01, c11, tx)
		return any(lerpRGBA(top, bottom, ty)).(T)
	case float32:
		c10, c01, c11 := any(c10).(float32), any(c01).(float32), any(c11).(float32)
		top := lerpFloat32(c00, c10, tx)
		bottom := lerpFloat32(c01, c11, tx)
		return any(lerpFloat32(top, bottom, ty)).(T)
	default:
		// No other pixel type flows through a mip chain in this
		// renderer; fall back to buf's unblended top-left tap rather
		// than panicking on an unrecognized T.
		px, _ := buf.Get(clampX(x0), clampY(y0))
		return px
	}
}

func lerpFloat32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// DerivativeContext holds the four UV coordinates of a shading quad
// (top-left, top-right, bottom-left, bottom-right), used to estimate
// screen-space derivatives for LOD selection, matching the rasterizer's
// per-quad ddx/ddy computation (spec.md §4.7/§9).
type DerivativeContext struct {
	UV00, UV10, UV01, UV11 vecmath.Vec2
}

// ComputeLOD estimates the mip level from the UV derivatives across a
// pixel quad, following the standard log2(max texel-footprint) formula.
//
// Parameters:
//   - ctx: the quad's four corner UVs
//   - texWidth, texHeight: dimensions of the texture being sampled, in texels
//
// Returns:
//   - float32: the estimated LOD, clamped to a minimum of 0
func ComputeLOD(ctx DerivativeContext, texWidth, texHeight int) float32 {
	ddxU := (ctx.UV10.X - ctx.UV00.X) * float32(texWidth)
	ddxV := (ctx.UV10.Y - ctx.UV00.Y) * float32(texHeight)
	ddyU := (ctx.UV01.X - ctx.UV00.X) * float32(texWidth)
	ddyV := (ctx.UV01.Y - ctx.UV00.Y) * float32(texHeight)

	dx2 := ddxU*ddxU + ddxV*ddxV
	dy2 := ddyU*ddyU + ddyV*ddyV
	maxDelta := dx2
	if dy2 > maxDelta {
		maxDelta = dy2
	}
	if maxDelta <= 0 {
		return 0
	}
	lod := 0.5 * float32(math.Log2(float64(maxDelta)))
	if lod < 0 {
		lod = 0
	}
	return lod
}

// LODFromQuadVaryings builds a DerivativeContext by decoding the
// float32 UV pair at uvOffset out of each of quad's four corner
// varying buffers (addressed through layout, normally
// BuiltIns.DerivativeCtx as the rasterizer wrote it) and runs
// ComputeLOD against it. This is how a textured fragment shader turns
// the quad the rasterizer hands it (ExecContext.QuadVaryings) into the
// mip level Sample expects, without duplicating ComputeLOD's math
// inline in every shader.
//
// Parameters:
//   - quad: ExecContext.QuadVaryings, the four corners' interpolated varying buffers
//   - layout: BuiltIns.DerivativeCtx, the quad-corner ordering to address quad by
//   - uvOffset: byte offset of the UV pair within each corner's varying buffer
//   - texWidth, texHeight: dimensions of the texture being sampled, in texels
//
// Returns:
//   - float32: the LOD estimated from the quad's four UV corners
func LODFromQuadVaryings(quad [4][]byte, layout [4]int, uvOffset, texWidth, texHeight int) float32 {
	decodeUV := func(slot int) vecmath.Vec2 {
		b := quad[layout[slot]]
		return vecmath.Vec2{
			X: math.Float32frombits(binary.LittleEndian.Uint32(b[uvOffset:])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(b[uvOffset+4:])),
		}
	}
	return ComputeLOD(DerivativeContext{
		UV00: decodeUV(0),
		UV10: decodeUV(1),
		UV01: decodeUV(2),
		UV11: decodeUV(3),
	}, texWidth, texHeight)
}
