package texture

import (
	"math"

	"github.com/oxy-go/soft/vecmath"
)

// Sample dispatches a texture lookup through the sampler's configured
// filter mode, resolving mipmap level from lod when the filter mode
// combines mip levels. Grounded on BaseSampler<T>::textureImpl.
func Sample(img *TextureImage[RGBA8], desc SamplerDesc, uv vecmath.Vec2, lod float32) RGBA8 {
	if img.Empty() {
		return RGBA8{}
	}

	filter := desc.FilterMag
	if lod > 0 {
		filter = desc.FilterMin
	}

	switch filter {
	case FilterNearest:
		return SampleNearest(img.Levels[0], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
	case FilterLinear:
		return SampleBilinear(img.Levels[0], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
	case FilterNearestMipmapNearest:
		level := nearestLevel(img, lod)
		return SampleNearest(img.Levels[level], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
	case FilterLinearMipmapNearest:
		level := nearestLevel(img, lod)
		return SampleBilinear(img.Levels[level], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
	case FilterNearestMipmapLinear:
		lo, hi, t := straddleLevels(img, lod)
		a := SampleNearest(img.Levels[lo], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
		b := SampleNearest(img.Levels[hi], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
		return lerpRGBA(a, b, t)
	case FilterLinearMipmapLinear:
		lo, hi, t := straddleLevels(img, lod)
		a := SampleBilinear(img.Levels[lo], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
		b := SampleBilinear(img.Levels[hi], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
		return lerpRGBA(a, b, t)
	default:
		return SampleBilinear(img.Levels[0], uv, desc.WrapS, desc.WrapT, [2]int{}, borderRGBA(desc.BorderColor))
	}
}

// nearestLevel picks the mip level closest to lod using
// clamp(ceil(lod+0.5)-1, 0, levelCount-1), matching
// BaseSampler<T>::getNearestSamplingLevel; this agrees with a plain
// round() everywhere except exactly on a half-integer lod, where the
// source rounds down instead of up.
func nearestLevel(img *TextureImage[RGBA8], lod float32) int {
	level := int(math.Ceil(float64(lod+0.5))) - 1
	return clampLevel(img, level)
}

func straddleLevels(img *TextureImage[RGBA8], lod float32) (lo, hi int, t float32) {
	lo = clampLevel(img, int(math.Floor(float64(lod))))
	hi = clampLevel(img, lo+1)
	t = lod - float32(lo)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return
}

func clampLevel(img *TextureImage[RGBA8], level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(img.Levels) {
		return len(img.Levels) - 1
	}
	return level
}

// SelectCubeFace resolves a 3D direction vector to the cube face and 2D
// face-local UV it samples, following the standard major-axis
// selection used by cubemap hardware samplers.
func SelectCubeFace(dir vecmath.Vec3) (CubeFace, vecmath.Vec2) {
	absX, absY, absZ := abs32(dir.X), abs32(dir.Y), abs32(dir.Z)

	var face CubeFace
	var sc, tc, ma float32

	switch {
	case absX >= absY && absX >= absZ:
		if dir.X > 0 {
			face, sc, tc, ma = FacePosX, -dir.Z, -dir.Y, absX
		} else {
			face, sc, tc, ma = FaceNegX, dir.Z, -dir.Y, absX
		}
	case absY >= absX && absY >= absZ:
		if dir.Y > 0 {
			face, sc, tc, ma = FacePosY, dir.X, dir.Z, absY
		} else {
			face, sc, tc, ma = FaceNegY, dir.X, -dir.Z, absY
		}
	default:
		if dir.Z > 0 {
			face, sc, tc, ma = FacePosZ, dir.X, -dir.Y, absZ
		} else {
			face, sc, tc, ma = FaceNegZ, -dir.X, -dir.Y, absZ
		}
	}

	u := (sc/ma + 1) * 0.5
	v := (tc/ma + 1) * 0.5
	return face, vecmath.Vec2{X: u, Y: v}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
