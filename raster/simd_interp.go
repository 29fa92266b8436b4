package raster

import (
	"unsafe"

	"github.com/oxy-go/soft/vecmath"
)

const simdAlignment = 32

// isAligned32 reports whether b's backing array starts on a 32-byte
// boundary, the alignment spec.md §9 requires before taking the 8-wide
// path; misaligned inputs fall back to a narrower or scalar tier.
func isAligned32(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%simdAlignment == 0
}

func isAligned16(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%16 == 0
}

// InterpolateVaryings computes dst[i] = bc.x*a[i] + bc.y*b[i] + bc.z*c[i]
// over the varying buffers interpreted as float32 arrays, dispatching
// to an 8-wide, 4-wide, or scalar loop by runtime alignment probe
// (spec.md §4.7/§9). All three tiers are numerically identical; the
// wide tiers exist to mirror the source's AVX/SSE/scalar dispatch
// shape rather than to provide real SIMD execution in Go.
func InterpolateVaryings(dst, a, b, c []byte, bc vecmath.Vec3) {
	n := len(dst) / 4
	if n == 0 {
		return
	}

	i := 0
	if isAligned32(dst) && isAligned32(a) && isAligned32(b) && isAligned32(c) {
		for ; i+8 <= n; i += 8 {
			interpolateLane(dst, a, b, c, bc, i, 8)
		}
	}
	if isAligned16(dst) && isAligned16(a) && isAligned16(b) && isAligned16(c) {
		for ; i+4 <= n; i += 4 {
			interpolateLane(dst, a, b, c, bc, i, 4)
		}
	}
	for ; i < n; i++ {
		interpolateLane(dst, a, b, c, bc, i, 1)
	}
}

// interpolateLane runs the fused-multiply-add reduction over `count`
// consecutive float32 lanes starting at element index start. The lane
// width is a documentation aid only: Go has no portable SIMD intrinsic,
// so every width executes the identical scalar arithmetic per element.
func interpolateLane(dst, a, b, c []byte, bc vecmath.Vec3, start, count int) {
	for k := 0; k < count; k++ {
		idx := (start + k) * 4
		av := decodeFloat32(a[idx : idx+4])
		bv := decodeFloat32(b[idx : idx+4])
		cv := decodeFloat32(c[idx : idx+4])
		out := bc.X*av + bc.Y*bv + bc.Z*cv
		encodeFloat32(dst[idx:idx+4], out)
	}
}
