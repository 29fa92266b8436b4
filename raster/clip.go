// Package raster implements homogeneous clipping, projection, culling,
// tiled multithreaded rasterization, depth test, blending, and MSAA
// resolve (spec.md §4.5-§4.10), grounded on original_source's
// RendererSoft.h method breakdown.
package raster

import (
	"math"

	"github.com/oxy-go/soft/vecmath"
	"github.com/oxy-go/soft/vertex"
)

const clipEpsilon = 1e-6

// ClippedVertex extends a shaded vertex with the interpolated attribute
// bytes needed to re-derive clipPos/clipMask/PointSize for vertices
// synthesized during clipping (Open Question 3).
type ClippedVertex struct {
	vertex.ShadedVertex
	Attributes []byte
}

func lerpBytesAsFloat32(a, b []byte, t float32) []byte {
	out := make([]byte, len(a))
	n := len(a) / 4
	for i := 0; i < n; i++ {
		af := decodeFloat32(a[i*4 : i*4+4])
		bf := decodeFloat32(b[i*4 : i*4+4])
		encodeFloat32(out[i*4:i*4+4], af+(bf-af)*t)
	}
	return out
}

func decodeFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

func encodeFloat32(dst []byte, v float32) {
	bits := math.Float32bits(v)
	dst[0] = byte(bits)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits >> 16)
	dst[3] = byte(bits >> 24)
}

// lerpVertex linearly blends two clipped vertices' attribute bytes and
// varyings (and PointSize) at parameter t, then recomputes ClipMask from
// the blended ClipPos without re-invoking the user vertex shader, per
// Open Question 3's resolution.
func lerpVertex(a, b ClippedVertex, t float32) ClippedVertex {
	out := ClippedVertex{
		ShadedVertex: vertex.ShadedVertex{
			ClipPos:   a.ClipPos.Lerp(b.ClipPos, t),
			PointSize: a.PointSize + (b.PointSize-a.PointSize)*t,
			Varyings:  lerpBytesAsFloat32(a.Varyings, b.Varyings, t),
		},
		Attributes: lerpBytesAsFloat32(a.Attributes, b.Attributes, t),
	}
	out.ClipMask = vecmath.ComputeClipMask(out.ClipPos)
	return out
}

// ClipPoint applies §4.5's point rule: discard iff any plane is
// violated.
func ClipPoint(v ClippedVertex) (discard bool) {
	return v.ClipMask != 0
}

// ClipLine clips a two-vertex segment against every violated plane,
// inserting new endpoints as needed, then runs postVertexProcess (when
// non-nil) on both output endpoints unconditionally — including ones
// that passed through unmodified — so the line path can fold projection
// into the same call regardless of whether clipping actually inserted a
// vertex. This is the source's line-clip-only perspective-divide-plus-
// viewport re-run (Open Question 3), generalized to always run rather
// than only on synthesized endpoints.
func ClipLine(v0, v1 ClippedVertex, postVertexProcess func(*ClippedVertex)) (out0, out1 ClippedVertex, discard bool) {
	mask := v0.ClipMask | v1.ClipMask
	if mask == 0 {
		out0, out1 = v0, v1
		if postVertexProcess != nil {
			postVertexProcess(&out0)
			postVertexProcess(&out1)
		}
		return out0, out1, false
	}

	t0, t1 := float32(0), float32(1)
	for _, plane := range vecmath.AllClipPlanes {
		if mask&plane == 0 {
			continue
		}
		d0 := vecmath.PlaneDistance(v0.ClipPos, plane)
		d1 := vecmath.PlaneDistance(v1.ClipPos, plane)
		if d0 < 0 && d1 < 0 {
			return ClippedVertex{}, ClippedVertex{}, true
		}
		if d0 < 0 {
			t := -d0 / (d1 - d0)
			if t > t0 {
				t0 = t
			}
		}
		if d1 < 0 {
			t := d0 / (d0 - d1)
			if t < t1 {
				t1 = t
			}
		}
	}
	if t0 > t1 {
		return ClippedVertex{}, ClippedVertex{}, true
	}

	out0, out1 = v0, v1
	if t0 > 0 {
		out0 = lerpVertex(v0, v1, t0)
	}
	if t1 < 1 {
		out1 = lerpVertex(v0, v1, t1)
	}
	if postVertexProcess != nil {
		postVertexProcess(&out0)
		postVertexProcess(&out1)
	}
	return out0, out1, false
}

// ClipTriangle runs Sutherland-Hodgman clipping against every plane
// present in the triangle's combined outcode, then fan-triangulates the
// resulting polygon. Returns the resulting triangles (each as three
// ClippedVertex), or nil if the triangle is fully discarded.
func ClipTriangle(v0, v1, v2 ClippedVertex) [][3]ClippedVertex {
	mask := v0.ClipMask | v1.ClipMask | v2.ClipMask
	poly := []ClippedVertex{v0, v1, v2}
	if mask == 0 {
		return [][3]ClippedVertex{{v0, v1, v2}}
	}

	for _, plane := range vecmath.AllClipPlanes {
		if mask&plane == 0 || len(poly) == 0 {
			continue
		}
		poly = clipPolygonAgainstPlane(poly, plane)
	}

	if len(poly) < 3 {
		return nil
	}

	triCount := len(poly) - 2
	tris := make([][3]ClippedVertex, triCount)
	for i := 0; i < triCount; i++ {
		tris[i] = [3]ClippedVertex{poly[0], poly[i+1], poly[i+2]}
	}
	return tris
}

func clipPolygonAgainstPlane(poly []ClippedVertex, plane vecmath.ClipMask) []ClippedVertex {
	out := make([]ClippedVertex, 0, len(poly)+1)
	n := len(poly)
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		da := vecmath.PlaneDistance(a.ClipPos, plane)
		db := vecmath.PlaneDistance(b.ClipPos, plane)

		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			var t float32
			if da >= 0 {
				t = da / (da - db)
			} else {
				t = -da / (db - da)
			}
			out = append(out, lerpVertex(a, b, t))
		}
	}
	return out
}

// recomputeClipFields refreshes only the derived fields of a
// synthesized vertex (ClipMask), without re-invoking user vertex-shader
// code, matching Open Question 3's resolution.
func recomputeClipFields(v *ClippedVertex) {
	v.ClipMask = vecmath.ComputeClipMask(v.ClipPos)
}
