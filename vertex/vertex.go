// Package vertex implements vertex array storage and per-vertex shader
// invocation, plus primitive assembly into points/lines/triangles
// (spec.md §2 "Vertex & primitive stage"), grounded on
// original_source's Vertex.h / VertexSoft.h.
package vertex

import (
	"fmt"

	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/vecmath"
)

// AttributeDescriptor describes one interleaved vertex attribute:
// component count (Size), the byte distance between successive
// vertices (Stride), and this attribute's byte offset within a vertex.
type AttributeDescriptor struct {
	Size   int
	Stride int
	Offset int
}

// PrimitiveType selects how the index buffer groups into primitives.
type PrimitiveType int

const (
	PrimitivePoints PrimitiveType = iota
	PrimitiveLines
	PrimitiveTriangles
)

// VertexArray is an interleaved attribute buffer plus a 32-bit signed
// index buffer, grounded on VertexArrayObjectSoft.
type VertexArray struct {
	Attributes   []AttributeDescriptor
	VertexStride int
	Data         []byte
	Indices      []int32
}

// NewVertexArray copies data and indices, matching
// VertexArrayObjectSoft's constructor semantics (owns its own copy of
// both buffers).
func NewVertexArray(attrs []AttributeDescriptor, stride int, data []byte, indices []int32) *VertexArray {
	va := &VertexArray{
		Attributes:   append([]AttributeDescriptor(nil), attrs...),
		VertexStride: stride,
		Data:         append([]byte(nil), data...),
		Indices:      append([]int32(nil), indices...),
	}
	return va
}

// VertexCount returns the number of vertices stored, derived from the
// data buffer length and stride.
func (va *VertexArray) VertexCount() int {
	if va.VertexStride == 0 {
		return 0
	}
	return len(va.Data) / va.VertexStride
}

// UpdateVertexData overwrites the vertex buffer in place, truncated to
// the smaller of the two lengths, matching
// VertexArrayObjectSoft::updateVertexData.
func (va *VertexArray) UpdateVertexData(data []byte) {
	n := len(data)
	if n > len(va.Data) {
		n = len(va.Data)
	}
	copy(va.Data, data[:n])
}

// PrimitiveCount returns how many primitives the index buffer encodes
// for the given primitive type (index count divided by 1, 2, or 3).
func PrimitiveCount(pt PrimitiveType, indexCount int) int {
	switch pt {
	case PrimitiveLines:
		return indexCount / 2
	case PrimitiveTriangles:
		return indexCount / 3
	default:
		return indexCount
	}
}

// ShadedVertex is the output of running a vertex stage on one vertex:
// clip-space position, point size, and the varyings byte payload the
// rasterizer will interpolate.
type ShadedVertex struct {
	ClipPos   vecmath.Vec4
	PointSize float32
	ClipMask  vecmath.ClipMask
	Varyings  []byte
}

// ExecuteVertexStage runs prog's vertex stage over every vertex named by
// indices, returning one ShadedVertex per index in order.
//
// Parameters:
//   - prog: shader program supplying the vertex stage and its uniform state
//   - va: vertex array the attribute bytes are read from
//   - indices: vertex indices to shade, in draw order (may repeat)
//
// Returns:
//   - []ShadedVertex: one shaded vertex per entry of indices
//   - error: non-nil if any index falls outside va's vertex count
func ExecuteVertexStage(prog *shader.Program, va *VertexArray, indices []int32) ([]ShadedVertex, error) {
	out := make([]ShadedVertex, len(indices))
	for i, idx := range indices {
		if int(idx) < 0 || int(idx) >= va.VertexCount() {
			return nil, fmt.Errorf("vertex: index %d out of range [0,%d)", idx, va.VertexCount())
		}
		base := int(idx) * va.VertexStride
		ctx := &shader.ExecContext{
			Attributes: va.Data[base : base+va.VertexStride],
			Varyings:   make([]byte, prog.VaryingsSize()),
		}
		prog.ExecVertexShader(ctx)

		bi := prog.BuiltIns()
		out[i] = ShadedVertex{
			ClipPos:   bi.Position,
			PointSize: bi.PointSize,
			ClipMask:  vecmath.ComputeClipMask(bi.Position),
			Varyings:  ctx.Varyings,
		}
	}
	return out, nil
}

// PrimitiveHolder is one assembled primitive: up to three vertex
// indices into a ShadedVertex slice (unused slots for points/lines are
// -1), plus per-primitive assembly flags.
type PrimitiveHolder struct {
	Indices     [3]int32
	Discard     bool
	FrontFacing bool
}

// AssemblePrimitives groups shaded vertex indices into primitives
// according to pt. A primitive with any discarded (clipMask-nonzero at
// every plane, or explicitly flagged) vertex is not itself discarded
// here — discard is decided during clipping (spec.md §4.5).
func AssemblePrimitives(pt PrimitiveType, indexCount int) []PrimitiveHolder {
	n := PrimitiveCount(pt, indexCount)
	prims := make([]PrimitiveHolder, n)
	switch pt {
	case PrimitivePoints:
		for i := 0; i < n; i++ {
			prims[i] = PrimitiveHolder{Indices: [3]int32{int32(i), -1, -1}}
		}
	case PrimitiveLines:
		for i := 0; i < n; i++ {
			prims[i] = PrimitiveHolder{Indices: [3]int32{int32(2 * i), int32(2*i + 1), -1}}
		}
	case PrimitiveTriangles:
		for i := 0; i < n; i++ {
			prims[i] = PrimitiveHolder{Indices: [3]int32{int32(3 * i), int32(3*i + 1), int32(3*i + 2)}}
		}
	}
	return prims
}
