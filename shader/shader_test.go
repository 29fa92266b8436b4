package shader

import (
	"testing"

	"github.com/oxy-go/soft/vecmath"
)

type testVertexStage struct {
	layout StageLayout
}

func (s *testVertexStage) Layout() StageLayout { return s.layout }
func (s *testVertexStage) Main(ctx *ExecContext) {
	ctx.BuiltIns.Position = vecmath.Vec4{X: 1, Y: 2, Z: 3, W: 1}
}
func (s *testVertexStage) Clone() VertexStage { return &testVertexStage{layout: s.layout} }

type testFragmentStage struct {
	layout StageLayout
}

func (s *testFragmentStage) Layout() StageLayout { return s.layout }
func (s *testFragmentStage) Main(ctx *ExecContext) {
	ctx.BuiltIns.FragColor = vecmath.Vec4{X: 0.5, Y: 0.5, Z: 0.5, W: 1}
}
func (s *testFragmentStage) Clone() FragmentStage { return &testFragmentStage{layout: s.layout} }

func sharedLayout() StageLayout {
	return StageLayout{
		Uniforms:     []UniformDesc{{Name: "mvp", Offset: 0, Size: 64}, {Name: "tex0", Offset: 64, Size: 0}},
		VaryingsSize: 16,
		Defines:      []string{"USE_FOG"},
	}
}

func TestSetShadersRejectsMismatchedLayouts(t *testing.T) {
	p := NewProgram()
	vs := &testVertexStage{layout: sharedLayout()}
	mismatched := sharedLayout()
	mismatched.VaryingsSize = 32
	fs := &testFragmentStage{layout: mismatched}

	if err := p.SetShaders(vs, fs, nil); err == nil {
		t.Fatalf("expected error on mismatched layouts")
	}
}

func TestUniformLocationAndBind(t *testing.T) {
	p := NewProgram()
	layout := sharedLayout()
	if err := p.SetShaders(&testVertexStage{layout: layout}, &testFragmentStage{layout: layout}, []string{"USE_FOG"}); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}

	loc := p.GetUniformLocation("mvp")
	if loc != 0 {
		t.Fatalf("GetUniformLocation(mvp) = %d; want 0", loc)
	}
	if p.GetUniformLocation("missing") != -1 {
		t.Fatalf("GetUniformLocation(missing) should be -1")
	}

	p.BindUniformBlock(loc, []byte{1, 2, 3, 4})
	// no-op bind at -1 must not panic
	p.BindUniformBlock(-1, []byte{9})
}

func TestExecVertexShaderWritesPosition(t *testing.T) {
	p := NewProgram()
	layout := sharedLayout()
	if err := p.SetShaders(&testVertexStage{layout: layout}, &testFragmentStage{layout: layout}, nil); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}

	ctx := &ExecContext{}
	p.ExecVertexShader(ctx)
	if p.BuiltIns().Position != (vecmath.Vec4{X: 1, Y: 2, Z: 3, W: 1}) {
		t.Fatalf("Position = %+v; want (1,2,3,1)", p.BuiltIns().Position)
	}
}

func TestCloneSharesCodeNotBuiltins(t *testing.T) {
	p := NewProgram()
	layout := sharedLayout()
	if err := p.SetShaders(&testVertexStage{layout: layout}, &testFragmentStage{layout: layout}, nil); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}

	p.BuiltIns().Position = vecmath.Vec4{X: 9, Y: 9, Z: 9, W: 1}
	clone := p.Clone()

	if clone.BuiltIns().Position == p.BuiltIns().Position {
		t.Fatalf("clone should own independent built-in state")
	}
	if &clone.uniformBuffer[0] != &p.uniformBuffer[0] {
		// sharing the same backing array is required so bindings made
		// before clone() are visible to every clone.
		t.Fatalf("clone should share the uniform buffer backing array")
	}
}

func TestDefinesEnabledAreSet(t *testing.T) {
	p := NewProgram()
	layout := sharedLayout()
	if err := p.SetShaders(&testVertexStage{layout: layout}, &testFragmentStage{layout: layout}, []string{"USE_FOG"}); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}
	if p.definesBuffer[0] != 1 {
		t.Fatalf("USE_FOG define not enabled")
	}
}
