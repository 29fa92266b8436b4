// Package shader defines the binding contract a user-supplied vertex or
// fragment stage must fulfill (spec.md §1 "shaders as user-supplied
// objects fulfilling a binding contract, not as a language"), plus the
// Program type that wires a matched pair of stages together. Grounded
// on original_source's ShaderSoft.h / ShaderProgramSoft.h, reshaped
// from a WGSL-parsing pipeline (the teacher's shader.go) into a plain
// Go interface, following the teacher's interface + private-struct
// idiom (spec.md §1).
package shader

import (
	"fmt"

	"github.com/oxy-go/soft/internal/mathutil"
	"github.com/oxy-go/soft/internal/rlog"
	"github.com/oxy-go/soft/vecmath"
)

// UniformDesc names one binding point in a stage's uniform buffer: a
// block starts at Offset and runs Size bytes, or a sampler slot occupies
// one pointer-sized slot when Size is 0.
type UniformDesc struct {
	Name   string
	Offset int
	Size   int
}

// StageLayout declares the memory shape a vertex or fragment stage
// exposes: attribute slots, uniform bindings, varying byte size, and
// the set of preprocessor-style defines it understands. Matching vertex
// and fragment stages of a Program must declare identical layouts
// (spec.md §3 "Invariants").
type StageLayout struct {
	Uniforms     []UniformDesc
	VaryingsSize int
	Defines      []string
}

// BuiltIns holds the shader-visible built-in variables, shared by
// reference between a program's vertex and fragment stage instances.
type BuiltIns struct {
	Position    vecmath.Vec4
	PointSize   float32
	FragCoord   vecmath.Vec4
	FrontFacing bool
	FragColor   vecmath.Vec4
	Discard     bool

	// DerivativeCtx names, per ExecContext.QuadVaryings slot, which
	// pixel-quad corner (p0 top-left, p1 top-right, p2 bottom-left, p3
	// bottom-right) that slot holds. The rasterizer always writes the
	// identity ordering [0,1,2,3]; a fragment shader (or a helper such
	// as texture.LODFromQuadVaryings) reads it to locate a given corner
	// inside QuadVaryings without hard-coding the layout.
	DerivativeCtx [4]int
}

// ExecContext is passed to a stage's Main method on every invocation. It
// carries the per-invocation attribute/varying pointers plus references
// to the buffers a Program wires up once at bind time.
type ExecContext struct {
	Attributes []byte
	Uniforms   []byte
	Defines    []byte
	Varyings   []byte
	BuiltIns   *BuiltIns

	// QuadVaryings holds the interpolated varyings buffer for all four
	// pixels of the shading quad this invocation belongs to (indexed per
	// BuiltIns.DerivativeCtx), letting a fragment shader estimate
	// screen-space derivatives the way texture.ComputeLOD needs. Nil for
	// a vertex-stage invocation; a POINT/LINE fragment invocation, which
	// has no quad of its own, gets its own varyings copied into all four
	// slots, so derivatives taken across them are zero.
	QuadVaryings [4][]byte

	program *Program
}

// Sampler retrieves a sampler previously bound with
// Program.BindUniformSampler at binding, or nil if none is bound. This
// is how a fragment stage's Main reaches Program.samplerBindings, since
// ExecContext otherwise has no way back to the owning Program.
//
// Parameters:
//   - binding: the sampler binding index passed to BindUniformSampler
//
// Returns:
//   - any: the bound sampler handle, or nil if binding is unbound
func (ctx *ExecContext) Sampler(binding int) any {
	if ctx.program == nil {
		return nil
	}
	return ctx.program.Sampler(binding)
}

// VertexStage is a user-supplied vertex shader. Main reads Attributes
// and Uniforms from ctx and writes ctx.BuiltIns.Position (and any
// varyings) before returning.
type VertexStage interface {
	Layout() StageLayout
	Main(ctx *ExecContext)
	Clone() VertexStage
}

// FragmentStage is a user-supplied fragment shader. Main reads Varyings
// and Uniforms from ctx and writes ctx.BuiltIns.FragColor (or sets
// ctx.BuiltIns.Discard) before returning.
type FragmentStage interface {
	Layout() StageLayout
	Main(ctx *ExecContext)
	Clone() FragmentStage
}

// Program composes a vertex and fragment stage that share layout,
// mirroring ShaderProgramSoft's SetShaders/bind*/exec* surface.
type Program struct {
	vertex   VertexStage
	fragment FragmentStage

	uniformLayout []UniformDesc
	varyingsSize  int

	definesBuffer []byte
	uniformBuffer []byte

	samplerBindings map[int]any

	builtins BuiltIns
}

// NewProgram creates an unbound program; call SetShaders before use.
func NewProgram() *Program {
	return &Program{}
}

// SetShaders installs the vertex and fragment stages, validates their
// layouts agree, allocates the defines and uniform buffers, and enables
// the named defines. Grounded on ShaderProgramSoft::SetShaders.
//
// Parameters:
//   - vs, fs: the stage pair to install; their Layout() results must match
//   - enabledDefines: names of vs's declared Defines to switch on
//
// Returns:
//   - error: non-nil if vs and fs declare incompatible layouts
func (p *Program) SetShaders(vs VertexStage, fs FragmentStage, enabledDefines []string) error {
	vsLayout := vs.Layout()
	fsLayout := fs.Layout()

	if !layoutsMatch(vsLayout, fsLayout) {
		return fmt.Errorf("shader: vertex and fragment stage layouts do not match")
	}

	p.vertex = vs
	p.fragment = fs
	p.uniformLayout = vsLayout.Uniforms
	p.varyingsSize = vsLayout.VaryingsSize

	p.definesBuffer = make([]byte, len(vsLayout.Defines))
	for _, name := range enabledDefines {
		for i, def := range vsLayout.Defines {
			if def == name {
				p.definesBuffer[i] = 1
			}
		}
	}

	uniformSize := 0
	for _, u := range p.uniformLayout {
		end := u.Offset + mathutil.Max(u.Size, ptrSize)
		if end > uniformSize {
			uniformSize = end
		}
	}
	p.uniformBuffer = make([]byte, uniformSize)

	return nil
}

const ptrSize = 8

func layoutsMatch(a, b StageLayout) bool {
	if a.VaryingsSize != b.VaryingsSize || len(a.Uniforms) != len(b.Uniforms) || len(a.Defines) != len(b.Defines) {
		return false
	}
	for i := range a.Uniforms {
		if a.Uniforms[i] != b.Uniforms[i] {
			return false
		}
	}
	for i := range a.Defines {
		if a.Defines[i] != b.Defines[i] {
			return false
		}
	}
	return true
}

// GetUniformLocation performs the linear search over the declared
// uniform descriptor list; a missing name resolves to -1, which is a
// silent no-op on subsequent binds (spec.md §4.3).
func (p *Program) GetUniformLocation(name string) int {
	for i, u := range p.uniformLayout {
		if u.Name == name {
			return i
		}
	}
	return -1
}

// BindUniformBlock copies data into the uniform buffer at binding's
// registered offset. binding == -1 is a silent no-op.
func (p *Program) BindUniformBlock(binding int, data []byte) {
	if binding < 0 || binding >= len(p.uniformLayout) {
		return
	}
	off := p.uniformLayout[binding].Offset
	if off+len(data) > len(p.uniformBuffer) {
		rlog.Errorf("shader: BindUniformBlock overruns uniform buffer at binding %d", binding)
		return
	}
	copy(p.uniformBuffer[off:], data)
}

// BindUniformSampler records a sampler handle for binding in the
// program's sampler table, read back through Sampler; the uniform buffer
// itself is not written.
func (p *Program) BindUniformSampler(binding int, sampler any) {
	if binding < 0 || binding >= len(p.uniformLayout) {
		return
	}
	// Go has no raw pointer slots in a byte buffer; samplers are kept in
	// a side table indexed by binding instead of being memcpy'd in, the
	// natural adaptation of the source's `SamplerSoft**` write.
	if p.samplerBindings == nil {
		p.samplerBindings = make(map[int]any)
	}
	p.samplerBindings[binding] = sampler
}

// Sampler retrieves a previously bound sampler handle, or nil if none
// is bound at binding.
func (p *Program) Sampler(binding int) any {
	if p.samplerBindings == nil {
		return nil
	}
	return p.samplerBindings[binding]
}

// ExecVertexShader invokes the bound vertex stage against ctx.
func (p *Program) ExecVertexShader(ctx *ExecContext) {
	ctx.BuiltIns = &p.builtins
	ctx.Uniforms = p.uniformBuffer
	ctx.Defines = p.definesBuffer
	ctx.program = p
	p.vertex.Main(ctx)
}

// ExecFragmentShader invokes the bound fragment stage against ctx. The
// caller is expected to have already set ctx.BuiltIns.FrontFacing,
// .FragCoord, and .DerivativeCtx (via the shared BuiltIns returned by
// p.BuiltIns()) before calling, since those are per-invocation inputs
// the rasterizer computes, not outputs Main produces.
func (p *Program) ExecFragmentShader(ctx *ExecContext) {
	ctx.BuiltIns = &p.builtins
	ctx.Uniforms = p.uniformBuffer
	ctx.Defines = p.definesBuffer
	ctx.program = p
	p.fragment.Main(ctx)
}

// VaryingsSize returns the byte size of one varyings slot.
func (p *Program) VaryingsSize() int { return p.varyingsSize }

// BuiltIns exposes the program's built-in variable state.
func (p *Program) BuiltIns() *BuiltIns { return &p.builtins }

// Clone produces an independent Program sharing the same immutable
// shader code, defines buffer, and uniform buffer, but owning private
// built-in state, so it can shade concurrently on another worker
// (spec.md §4.3 "clone()"; the rasterizer clones once per raster task).
func (p *Program) Clone() *Program {
	clone := &Program{
		vertex:        p.vertex.Clone(),
		fragment:      p.fragment.Clone(),
		uniformLayout: p.uniformLayout,
		varyingsSize:  p.varyingsSize,
		definesBuffer: p.definesBuffer,
		uniformBuffer: p.uniformBuffer,
	}
	if p.samplerBindings != nil {
		clone.samplerBindings = make(map[int]any, len(p.samplerBindings))
		for k, v := range p.samplerBindings {
			clone.samplerBindings[k] = v
		}
	}
	return clone
}
