package raster

import "github.com/oxy-go/soft/vecmath"

// BlendFactor is one term of a blend equation's source/destination
// factor selection (spec.md §4.9).
type BlendFactor int

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// BlendOp is the combining operator applied to the weighted source and
// destination terms.
type BlendOp int

const (
	BlendAdd BlendOp = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
)

// BlendParams bundles the independent RGB and Alpha blend equations,
// grounded on spec.md §3's pipeline-state field.
type BlendParams struct {
	SrcRGB, DstRGB     BlendFactor
	OpRGB              BlendOp
	SrcAlpha, DstAlpha BlendFactor
	OpAlpha            BlendOp
}

func factorValue(f BlendFactor, src, dst vecmath.Vec4) vecmath.Vec4 {
	switch f {
	case BlendZero:
		return vecmath.Vec4{}
	case BlendOne:
		return vecmath.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	case BlendSrcColor:
		return src
	case BlendOneMinusSrcColor:
		return vecmath.Vec4{X: 1, Y: 1, Z: 1, W: 1}.Sub(src)
	case BlendSrcAlpha:
		return vecmath.Vec4{X: src.W, Y: src.W, Z: src.W, W: src.W}
	case BlendOneMinusSrcAlpha:
		a := 1 - src.W
		return vecmath.Vec4{X: a, Y: a, Z: a, W: a}
	case BlendDstColor:
		return dst
	case BlendOneMinusDstColor:
		return vecmath.Vec4{X: 1, Y: 1, Z: 1, W: 1}.Sub(dst)
	case BlendDstAlpha:
		return vecmath.Vec4{X: dst.W, Y: dst.W, Z: dst.W, W: dst.W}
	case BlendOneMinusDstAlpha:
		a := 1 - dst.W
		return vecmath.Vec4{X: a, Y: a, Z: a, W: a}
	default:
		return vecmath.Vec4{}
	}
}

func applyOp(op BlendOp, s, d float32) float32 {
	switch op {
	case BlendAdd:
		return s + d
	case BlendSubtract:
		return s - d
	case BlendReverseSubtract:
		return d - s
	case BlendMin:
		if s < d {
			return s
		}
		return d
	case BlendMax:
		if s > d {
			return s
		}
		return d
	default:
		return s + d
	}
}

// Blend computes the blended color of src over dst using params,
// clamping the result to [0,1] before returning (spec.md §4.9).
func Blend(params BlendParams, src, dst vecmath.Vec4) vecmath.Vec4 {
	srcRGBFactor := factorValue(params.SrcRGB, src, dst)
	dstRGBFactor := factorValue(params.DstRGB, src, dst)
	srcAlphaFactor := factorValue(params.SrcAlpha, src, dst)
	dstAlphaFactor := factorValue(params.DstAlpha, src, dst)

	r := applyOp(params.OpRGB, src.X*srcRGBFactor.X, dst.X*dstRGBFactor.X)
	g := applyOp(params.OpRGB, src.Y*srcRGBFactor.Y, dst.Y*dstRGBFactor.Y)
	b := applyOp(params.OpRGB, src.Z*srcRGBFactor.Z, dst.Z*dstRGBFactor.Z)
	a := applyOp(params.OpAlpha, src.W*srcAlphaFactor.W, dst.W*dstAlphaFactor.W)

	return vecmath.Vec4{X: r, Y: g, Z: b, W: a}.Clamp01()
}

// ToRGBA8 converts a clamped [0,1] color to 8-bit channels, rounding
// toward zero via truncation as spec.md §4.9 requires.
func ToRGBA8(c vecmath.Vec4) (r, g, b, a uint8) {
	c = c.Clamp01()
	return uint8(c.X * 255), uint8(c.Y * 255), uint8(c.Z * 255), uint8(c.W * 255)
}
