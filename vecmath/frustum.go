package vecmath

import (
	"math"

	"github.com/oxy-go/soft/internal/mathutil"
)

// Plane represents a plane in 3D space using the equation
// ax + by + cz + d = 0, where (a, b, c) is the normal and d is the
// distance from the origin.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that the positive half-space is inside the
// frustum.
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustumFromMatrix extracts the six frustum planes from a
// combined view-projection matrix using the Gribb/Hartmann method.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
func ExtractFrustumFromMatrix(viewProj *Mat4) Frustum {
	var f Frustum
	m := viewProj

	f.Planes[FrustumLeft] = Plane{Vec3{m[3] + m[0], m[7] + m[4], m[11] + m[8]}, m[15] + m[12]}
	f.Planes[FrustumRight] = Plane{Vec3{m[3] - m[0], m[7] - m[4], m[11] - m[8]}, m[15] - m[12]}
	f.Planes[FrustumBottom] = Plane{Vec3{m[3] + m[1], m[7] + m[5], m[11] + m[9]}, m[15] + m[13]}
	f.Planes[FrustumTop] = Plane{Vec3{m[3] - m[1], m[7] - m[5], m[11] - m[9]}, m[15] - m[13]}
	f.Planes[FrustumNear] = Plane{Vec3{m[3] + m[2], m[7] + m[6], m[11] + m[10]}, m[15] + m[14]}
	f.Planes[FrustumFar] = Plane{Vec3{m[3] - m[2], m[7] - m[6], m[11] - m[10]}, m[15] - m[14]}

	for i := range f.Planes {
		f.normalizePlane(i)
	}
	return f
}

func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(p.Normal.Dot(p.Normal))))
	if length > 0 {
		inv := 1 / length
		p.Normal = p.Normal.Scale(inv)
		p.Distance *= inv
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: Vec3{mathutil.Min(a.Min.X, b.Min.X), mathutil.Min(a.Min.Y, b.Min.Y), mathutil.Min(a.Min.Z, b.Min.Z)},
		Max: Vec3{mathutil.Max(a.Max.X, b.Max.X), mathutil.Max(a.Max.Y, b.Max.Y), mathutil.Max(a.Max.Z, b.Max.Z)},
	}
}

// IntersectsFrustum reports whether the box overlaps the positive
// half-space of every plane of f (a conservative frustum/AABB test).
func (a AABB) IntersectsFrustum(f Frustum) bool {
	for _, p := range f.Planes {
		// Positive vertex: the corner of the box furthest along the plane normal.
		px := a.Min.X
		if p.Normal.X >= 0 {
			px = a.Max.X
		}
		py := a.Min.Y
		if p.Normal.Y >= 0 {
			py = a.Max.Y
		}
		pz := a.Min.Z
		if p.Normal.Z >= 0 {
			pz = a.Max.Z
		}
		if p.Normal.Dot(Vec3{px, py, pz})+p.Distance < 0 {
			return false
		}
	}
	return true
}

// ClipMask is a 6-bit outcode recording which of the six frustum
// half-spaces (w±x, w±y, w±z < 0) a homogeneous clip-space point
// violates.
type ClipMask uint8

// Clip-plane bits, ordered +x,-x,+y,-y,+z,-z (matching the w±component
// tests of spec.md §4.4).
const (
	ClipPosX ClipMask = 1 << iota
	ClipNegX
	ClipPosY
	ClipNegY
	ClipPosZ
	ClipNegZ
)

// AllClipPlanes lists every clip-plane bit, in a fixed evaluation order,
// for Sutherland-Hodgman traversal.
var AllClipPlanes = [6]ClipMask{ClipPosX, ClipNegX, ClipPosY, ClipNegY, ClipPosZ, ClipNegZ}

// ComputeClipMask classifies a homogeneous clip-space position against
// the six frustum half-spaces.
func ComputeClipMask(clipPos Vec4) ClipMask {
	var mask ClipMask
	w := clipPos.W
	if clipPos.X > w {
		mask |= ClipPosX
	}
	if clipPos.X < -w {
		mask |= ClipNegX
	}
	if clipPos.Y > w {
		mask |= ClipPosY
	}
	if clipPos.Y < -w {
		mask |= ClipNegY
	}
	if clipPos.Z > w {
		mask |= ClipPosZ
	}
	if clipPos.Z < -w {
		mask |= ClipNegZ
	}
	return mask
}

// PlaneDistance returns the signed distance of clipPos from the given
// clip plane, positive when clipPos is inside that plane's half-space.
// This is the "d = plane·clipPos" quantity used by the line and
// triangle clippers (spec.md §4.5).
func PlaneDistance(clipPos Vec4, plane ClipMask) float32 {
	switch plane {
	case ClipPosX:
		return clipPos.W - clipPos.X
	case ClipNegX:
		return clipPos.W + clipPos.X
	case ClipPosY:
		return clipPos.W - clipPos.Y
	case ClipNegY:
		return clipPos.W + clipPos.Y
	case ClipPosZ:
		return clipPos.W - clipPos.Z
	case ClipNegZ:
		return clipPos.W + clipPos.Z
	default:
		return 0
	}
}
