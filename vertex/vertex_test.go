package vertex

import (
	"testing"

	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/vecmath"
)

func TestVertexCountFromStride(t *testing.T) {
	data := make([]byte, 48) // 2 vertices * 24 bytes
	va := NewVertexArray([]AttributeDescriptor{{Size: 3, Stride: 24, Offset: 0}}, 24, data, nil)
	if got := va.VertexCount(); got != 2 {
		t.Fatalf("VertexCount = %d; want 2", got)
	}
}

func TestUpdateVertexDataTruncates(t *testing.T) {
	va := NewVertexArray(nil, 4, make([]byte, 4), nil)
	va.UpdateVertexData([]byte{1, 2, 3, 4, 5, 6})
	if va.Data[0] != 1 || va.Data[3] != 4 {
		t.Fatalf("UpdateVertexData did not copy expected bytes: %v", va.Data)
	}
}

func TestPrimitiveCountDividesByGroupSize(t *testing.T) {
	if PrimitiveCount(PrimitiveTriangles, 9) != 3 {
		t.Fatalf("triangle count wrong")
	}
	if PrimitiveCount(PrimitiveLines, 8) != 4 {
		t.Fatalf("line count wrong")
	}
	if PrimitiveCount(PrimitivePoints, 5) != 5 {
		t.Fatalf("point count wrong")
	}
}

func TestAssemblePrimitivesTriangleIndices(t *testing.T) {
	prims := AssemblePrimitives(PrimitiveTriangles, 6)
	if len(prims) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(prims))
	}
	if prims[1].Indices != [3]int32{3, 4, 5} {
		t.Fatalf("second triangle indices = %v; want [3 4 5]", prims[1].Indices)
	}
}

type passthroughVertexStage struct{ layout shader.StageLayout }

func (s *passthroughVertexStage) Layout() shader.StageLayout { return s.layout }
func (s *passthroughVertexStage) Main(ctx *shader.ExecContext) {
	ctx.BuiltIns.Position = vecmath.Vec4{X: 0, Y: 0, Z: 0, W: 1}
}
func (s *passthroughVertexStage) Clone() shader.VertexStage {
	return &passthroughVertexStage{layout: s.layout}
}

type passthroughFragmentStage struct{ layout shader.StageLayout }

func (s *passthroughFragmentStage) Layout() shader.StageLayout { return s.layout }
func (s *passthroughFragmentStage) Main(ctx *shader.ExecContext) {}
func (s *passthroughFragmentStage) Clone() shader.FragmentStage {
	return &passthroughFragmentStage{layout: s.layout}
}

func TestExecuteVertexStageRejectsOutOfRangeIndex(t *testing.T) {
	layout := shader.StageLayout{}
	prog := shader.NewProgram()
	if err := prog.SetShaders(&passthroughVertexStage{layout: layout}, &passthroughFragmentStage{layout: layout}, nil); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}

	va := NewVertexArray([]AttributeDescriptor{{Size: 3, Stride: 12, Offset: 0}}, 12, make([]byte, 12), nil)
	_, err := ExecuteVertexStage(prog, va, []int32{5})
	if err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestExecuteVertexStageComputesClipMask(t *testing.T) {
	layout := shader.StageLayout{}
	prog := shader.NewProgram()
	if err := prog.SetShaders(&passthroughVertexStage{layout: layout}, &passthroughFragmentStage{layout: layout}, nil); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}

	va := NewVertexArray([]AttributeDescriptor{{Size: 3, Stride: 12, Offset: 0}}, 12, make([]byte, 12), nil)
	shaded, err := ExecuteVertexStage(prog, va, []int32{0})
	if err != nil {
		t.Fatalf("ExecuteVertexStage: %v", err)
	}
	if shaded[0].ClipMask != 0 {
		t.Fatalf("origin point should be inside all planes, got clipMask=%d", shaded[0].ClipMask)
	}
}
