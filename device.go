// Package soft is the library entry point: a functional-options built
// Device wires together vertex assembly, clipping, projection, culling,
// tiled rasterization, and MSAA resolve into the render-pass driver of
// spec.md §4.11. Grounded on the teacher's engine/renderer_builder.go
// functional-options shape and original_source's RendererSoft.h public
// method surface.
package soft

import (
	"fmt"

	"github.com/oxy-go/soft/framebuffer"
	"github.com/oxy-go/soft/internal/imgbuf"
	"github.com/oxy-go/soft/internal/rlog"
	"github.com/oxy-go/soft/internal/workpool"
	"github.com/oxy-go/soft/pipeline"
	"github.com/oxy-go/soft/raster"
	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/texture"
	"github.com/oxy-go/soft/vertex"
)

// Option configures a Device under construction.
type Option func(*Device)

// WithRasterBlockSize sets the tile side in pixels. Must be a positive
// power of two; an invalid value is logged and replaced with the
// default of 32 (spec.md §6).
func WithRasterBlockSize(n int) Option {
	return func(d *Device) {
		if n <= 0 || n&(n-1) != 0 {
			rlog.Errorf("device: invalid raster block size %d, falling back to 32", n)
			n = 32
		}
		d.params.BlockSize = n
	}
}

// WithRasterSamples selects 1x or 4x MSAA. Any other value falls back
// to 1.
func WithRasterSamples(n int) Option {
	return func(d *Device) {
		if n != 1 && n != 4 {
			rlog.Errorf("device: invalid raster sample count %d, falling back to 1", n)
			n = 1
		}
		d.params.Samples = n
	}
}

// WithEarlyZ toggles the pre-shading depth probe.
func WithEarlyZ(enabled bool) Option {
	return func(d *Device) { d.params.EarlyZ = enabled }
}

// WithBufferLayout overrides the default level-0 (and multisample)
// storage layout new textures allocate with; mip levels generated above
// level 0 are always linear.
func WithBufferLayout(layout imgbuf.Layout) Option {
	return func(d *Device) { d.bufferLayout = layout }
}

// WithWorkerCount sets the fixed worker-pool size backing every draw
// call and MSAA resolve; left unset (or n <= 0), workpool.New sizes the
// pool to runtime.NumCPU (spec.md §5.8).
func WithWorkerCount(n int) Option {
	return func(d *Device) { d.workerCount = n }
}

// Device is the renderer's entry point: one worker pool, one pipeline
// state cache, and the current render-pass binding state, grounded on
// RendererSoft's public surface.
type Device struct {
	pool  *workpool.Pool
	cache *pipeline.Cache

	params       raster.Params
	bufferLayout imgbuf.Layout
	workerCount  int

	fb       *framebuffer.Framebuffer
	viewport raster.Viewport
	va       *vertex.VertexArray
	program  *shader.Program
	state    pipeline.State

	profiler *rlog.Profiler
}

// NewDevice constructs a Device with spec.md §6's defaults, then
// applies opts.
func NewDevice(opts ...Option) *Device {
	d := &Device{
		params:       raster.DefaultParams(),
		bufferLayout: imgbuf.LinearLayout{},
		workerCount:  0,
		cache:        pipeline.NewCache(),
		state:        pipeline.New(),
		profiler:     rlog.NewProfiler(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.pool = workpool.New(d.workerCount)
	return d
}

// Close drains the worker pool and stops its goroutines.
func (d *Device) Close() { d.pool.Close() }

// NewFramebuffer delegates to framebuffer.NewFramebuffer.
func (d *Device) NewFramebuffer(offscreen bool) *framebuffer.Framebuffer {
	return framebuffer.NewFramebuffer(offscreen)
}

// NewTexture allocates a texture using the device's configured default
// buffer layout, then initializes zeroed storage.
func (d *Device) NewTexture(kind texture.Kind, format texture.Format, width, height int, usage texture.Usage) *texture.Texture {
	t := texture.NewTexture(kind, format, width, height, usage)
	if d.bufferLayout != nil {
		t.Layout = d.bufferLayout
	}
	t.InitStorage()
	return t
}

// NewVertexArray delegates to vertex.NewVertexArray.
func (d *Device) NewVertexArray(attrs []vertex.AttributeDescriptor, stride int, data []byte, indices []int32) *vertex.VertexArray {
	return vertex.NewVertexArray(attrs, stride, data, indices)
}

// NewProgram delegates to shader.NewProgram.
func (d *Device) NewProgram() *shader.Program { return shader.NewProgram() }

// NewPipelineState builds a State from opts and interns it through the
// device's process-wide cache, so identical states across draw calls
// share one instance (spec.md §3).
func (d *Device) NewPipelineState(opts ...pipeline.Option) pipeline.State {
	return d.cache.Intern(pipeline.New(opts...))
}

// BeginRenderPass binds fb as the current render target and clears it
// per states.
func (d *Device) BeginRenderPass(fb *framebuffer.Framebuffer, states framebuffer.ClearStates) {
	fb.CheckAttachmentsAgree()
	fb.Clear(states)
	d.fb = fb
}

// SetViewport installs the screen rectangle and depth range future
// draws project into.
func (d *Device) SetViewport(x, y, w, h int, minDepth, maxDepth float32) {
	d.viewport = raster.NewViewport(x, y, w, h, minDepth, maxDepth)
}

// SetVertexArrayObject binds the vertex/index buffers future draws read.
func (d *Device) SetVertexArrayObject(va *vertex.VertexArray) { d.va = va }

// SetShaderProgram binds the program future draws shade with.
func (d *Device) SetShaderProgram(p *shader.Program) { d.program = p }

// SetPipelineStates installs the fixed-function state future draws use.
func (d *Device) SetPipelineStates(s pipeline.State) { d.state = s }

// EndRenderPass unbinds the current framebuffer. WaitIdle should be
// called first if the caller needs the pass's writes visible.
func (d *Device) EndRenderPass() { d.fb = nil }

// WaitIdle blocks until every task queued by prior Draw calls has
// completed, then resolves MSAA if the bound color attachment is
// multisampled (spec.md §4.10/§4.11).
func (d *Device) WaitIdle() {
	d.pool.WaitTasksFinish()
	if d.fb != nil && d.fb.Color != nil {
		raster.ResolveMSAA(d.pool, d.fb.Color)
	}
	d.profiler.Tick()
}

// Draw runs vertex shading, primitive assembly, clipping, projection,
// culling, and rasterization for indexCount indices starting at
// firstIndex. Draw blocks until every tile task it schedules has
// completed before returning, so two dependent draws issued back to
// back never race on the same depth/color attachment; callers only
// need WaitIdle to resolve MSAA at pass end.
//
// Parameters:
//   - firstIndex: offset into the bound vertex array's index buffer
//   - indexCount: number of indices to draw, interpreted per the bound
//     pipeline state's PrimitiveType
//
// Returns:
//   - error: non-nil if no render pass/vertex array/program is bound, or
//     the index range is out of bounds
func (d *Device) Draw(firstIndex, indexCount int) error {
	if d.fb == nil {
		return fmt.Errorf("device: Draw called with no bound render pass")
	}
	if d.va == nil || d.program == nil {
		return fmt.Errorf("device: Draw called without a bound vertex array or program")
	}
	if firstIndex < 0 || firstIndex+indexCount > len(d.va.Indices) {
		return fmt.Errorf("device: Draw index range [%d,%d) out of bounds", firstIndex, firstIndex+indexCount)
	}

	indices := d.va.Indices[firstIndex : firstIndex+indexCount]
	shaded, err := vertex.ExecuteVertexStage(d.program, d.va, indices)
	if err != nil {
		return err
	}
	clipped := make([]raster.ClippedVertex, len(indices))
	for i, idx := range indices {
		base := int(idx) * d.va.VertexStride
		attrs := append([]byte(nil), d.va.Data[base:base+d.va.VertexStride]...)
		clipped[i] = raster.ClippedVertex{ShadedVertex: shaded[i], Attributes: attrs}
	}

	target := raster.Target{
		Color:       d.fb.Color,
		Depth:       d.fb.Depth,
		AbsMinDepth: d.viewport.AbsMinDepth,
		AbsMaxDepth: d.viewport.AbsMaxDepth,
	}
	drawState := d.state.ToDrawState()

	switch d.state.PrimitiveType {
	case vertex.PrimitiveTriangles:
		d.drawTriangles(clipped, target, drawState)
	case vertex.PrimitiveLines:
		d.drawLines(clipped, target, drawState)
	case vertex.PrimitivePoints:
		d.drawPoints(clipped, target, drawState)
	}
	d.pool.WaitTasksFinish()
	return nil
}

func (d *Device) drawTriangles(clipped []raster.ClippedVertex, target raster.Target, drawState raster.DrawState) {
	prims := vertex.AssemblePrimitives(vertex.PrimitiveTriangles, len(clipped))
	for _, prim := range prims {
		v0, v1, v2 := clipped[prim.Indices[0]], clipped[prim.Indices[1]], clipped[prim.Indices[2]]
		tris := raster.ClipTriangle(v0, v1, v2)
		for _, tri := range tris {
			s0 := raster.ProjectVertex(tri[0], d.viewport)
			s1 := raster.ProjectVertex(tri[1], d.viewport)
			s2 := raster.ProjectVertex(tri[2], d.viewport)

			if raster.IsDegenerate(s0.ScreenPos, s1.ScreenPos, s2.ScreenPos) {
				continue
			}
			frontFacing := raster.FrontFacing(s0.ScreenPos, s1.ScreenPos, s2.ScreenPos)
			if raster.ShouldCull(frontFacing, drawState.CullFace) {
				continue
			}

			switch d.state.PolygonMode {
			case pipeline.PolygonFill:
				raster.RasterizeTriangle(d.pool, d.program, [3]raster.ScreenVertex{s0, s1, s2}, frontFacing, target, drawState, d.params, d.profiler)
			case pipeline.PolygonLine:
				raster.RasterizeLine(d.pool, d.program, s0, s1, frontFacing, target, drawState)
				raster.RasterizeLine(d.pool, d.program, s1, s2, frontFacing, target, drawState)
				raster.RasterizeLine(d.pool, d.program, s2, s0, frontFacing, target, drawState)
			case pipeline.PolygonPoint:
				raster.RasterizePoint(d.pool, d.program, s0, frontFacing, target, drawState)
				raster.RasterizePoint(d.pool, d.program, s1, frontFacing, target, drawState)
				raster.RasterizePoint(d.pool, d.program, s2, frontFacing, target, drawState)
			}
		}
	}
}

func (d *Device) drawLines(clipped []raster.ClippedVertex, target raster.Target, drawState raster.DrawState) {
	pvp := raster.PostVertexProcess(d.viewport)
	prims := vertex.AssemblePrimitives(vertex.PrimitiveLines, len(clipped))
	for _, prim := range prims {
		v0, v1 := clipped[prim.Indices[0]], clipped[prim.Indices[1]]
		out0, out1, discard := raster.ClipLine(v0, v1, pvp)
		if discard {
			continue
		}
		s0 := raster.ScreenVertex{ScreenPos: out0.ClipPos, PointSize: out0.PointSize, Varyings: out0.Varyings}
		s1 := raster.ScreenVertex{ScreenPos: out1.ClipPos, PointSize: out1.PointSize, Varyings: out1.Varyings}
		raster.RasterizeLine(d.pool, d.program, s0, s1, true, target, drawState)
	}
}

func (d *Device) drawPoints(clipped []raster.ClippedVertex, target raster.Target, drawState raster.DrawState) {
	prims := vertex.AssemblePrimitives(vertex.PrimitivePoints, len(clipped))
	for _, prim := range prims {
		v := clipped[prim.Indices[0]]
		if raster.ClipPoint(v) {
			continue
		}
		s := raster.ProjectVertex(v, d.viewport)
		raster.RasterizePoint(d.pool, d.program, s, true, target, drawState)
	}
}
