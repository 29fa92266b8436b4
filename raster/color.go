package raster

import (
	"github.com/oxy-go/soft/texture"
	"github.com/oxy-go/soft/vecmath"
)

func rgba8ToVec4(c texture.RGBA8) vecmath.Vec4 {
	const inv255 = 1.0 / 255.0
	return vecmath.Vec4{
		X: float32(c.R) * inv255,
		Y: float32(c.G) * inv255,
		Z: float32(c.B) * inv255,
		W: float32(c.A) * inv255,
	}
}

func vec4ToRGBA8(c vecmath.Vec4) texture.RGBA8 {
	r, g, b, a := ToRGBA8(c)
	return texture.RGBA8{R: r, G: g, B: b, A: a}
}
