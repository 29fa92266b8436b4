// Package vecmath contains the plain vector, matrix and frustum math shared
// across the rasterization pipeline. Types are value structs of float32,
// following the flat-array convention of the engine this was distilled
// from, but expressed as points rather than matrix-upload byte slices.
package vecmath

import "math"

// Vec2 is a two-component float32 vector, most commonly a texture
// coordinate or a screen-space offset.
type Vec2 struct {
	X, Y float32
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns the component-wise difference v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mul returns the component-wise product of v and o.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

// Floor returns the component-wise floor of v.
func (v Vec2) Floor() Vec2 { return Vec2{float32(math.Floor(float64(v.X))), float32(math.Floor(float64(v.Y)))} }

// Fract returns the fractional part of each component of v.
func (v Vec2) Fract() Vec2 { return v.Sub(v.Floor()) }

// Vec3 is a three-component float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns the component-wise difference v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged rather than dividing by zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Abs returns the component-wise absolute value of v.
func (v Vec3) Abs() Vec3 {
	return Vec3{float32(math.Abs(float64(v.X))), float32(math.Abs(float64(v.Y))), float32(math.Abs(float64(v.Z)))}
}

// Vec4 is a four-component float32 vector, used for clip-space and
// homogeneous positions as well as RGBA colors.
type Vec4 struct {
	X, Y, Z, W float32
}

// Add returns the component-wise sum of v and o.
func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }

// Sub returns the component-wise difference v - o.
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }

// Scale returns v scaled by s.
func (v Vec4) Scale(s float32) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Lerp returns the linear interpolation between v and o at parameter t.
func (v Vec4) Lerp(o Vec4, t float32) Vec4 {
	return Vec4{
		v.X + (o.X-v.X)*t,
		v.Y + (o.Y-v.Y)*t,
		v.Z + (o.Z-v.Z)*t,
		v.W + (o.W-v.W)*t,
	}
}

// Vec3 drops the W component of v.
func (v Vec4) Vec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Clamp01 clamps every component of v to [0, 1].
func (v Vec4) Clamp01() Vec4 {
	return Vec4{clamp01(v.X), clamp01(v.Y), clamp01(v.Z), clamp01(v.W)}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp returns x clamped to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Mix linearly interpolates between a and b at parameter t (GLSL "mix").
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}
