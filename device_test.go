package soft

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/oxy-go/soft/framebuffer"
	"github.com/oxy-go/soft/internal/imgbuf"
	"github.com/oxy-go/soft/pipeline"
	"github.com/oxy-go/soft/raster"
	"github.com/oxy-go/soft/shader"
	"github.com/oxy-go/soft/texture"
	"github.com/oxy-go/soft/vecmath"
	"github.com/oxy-go/soft/vertex"
)

// samplerUniformLayout is the single sampler-slot layout a textured
// pair of stages must agree on so SetShaders's layoutsMatch check
// passes; only the binding's position matters, since a sampler slot has
// no uniform-buffer bytes of its own (shader.UniformDesc's Size==0
// case).
var samplerUniformLayout = []shader.UniformDesc{{Name: "tex0", Offset: 0, Size: 0}}

// texturedVertex forwards a 3-float position plus a 2-float UV
// attribute, passing the UV through as the sole varying.
type texturedVertex struct{}

func (texturedVertex) Layout() shader.StageLayout {
	return shader.StageLayout{Uniforms: samplerUniformLayout, VaryingsSize: 8}
}

func (texturedVertex) Main(ctx *shader.ExecContext) {
	x := decodeF32(ctx.Attributes[0:4])
	y := decodeF32(ctx.Attributes[4:8])
	z := decodeF32(ctx.Attributes[8:12])
	ctx.BuiltIns.Position = vecmath.Vec4{X: x, Y: y, Z: z, W: 1}
	copy(ctx.Varyings[0:8], ctx.Attributes[12:20])
}

func (texturedVertex) Clone() shader.VertexStage { return texturedVertex{} }

// texturedFragment reads its UV varying, estimates a LOD from the
// shading quad's four UV corners, and samples the sampler bound at
// binding 0 through the shader binding contract — this is the fragment-
// shading-path wiring for the texture store/sampler subsystem.
type texturedFragment struct{}

func (texturedFragment) Layout() shader.StageLayout {
	return shader.StageLayout{Uniforms: samplerUniformLayout, VaryingsSize: 8}
}

func (texturedFragment) Main(ctx *shader.ExecContext) {
	u := decodeF32(ctx.Varyings[0:4])
	v := decodeF32(ctx.Varyings[4:8])

	tex, _ := ctx.Sampler(0).(*texture.Texture)
	if tex == nil {
		return
	}

	lod := texture.LODFromQuadVaryings(ctx.QuadVaryings, ctx.BuiltIns.DerivativeCtx, 0, tex.Width, tex.Height)
	c := texture.Sample(tex.Layers[0], tex.Sampler, vecmath.Vec2{X: u, Y: v}, lod)
	ctx.BuiltIns.FragColor = vecmath.Vec4{
		X: float32(c.R) / 255,
		Y: float32(c.G) / 255,
		Z: float32(c.B) / 255,
		W: float32(c.A) / 255,
	}
}

func (texturedFragment) Clone() shader.FragmentStage { return texturedFragment{} }

// passthroughVertex forwards a 3-float position attribute straight to
// clip space with w=1 and writes no varyings.
type passthroughVertex struct{}

func (passthroughVertex) Layout() shader.StageLayout { return shader.StageLayout{} }

func (passthroughVertex) Main(ctx *shader.ExecContext) {
	x := decodeF32(ctx.Attributes[0:4])
	y := decodeF32(ctx.Attributes[4:8])
	z := decodeF32(ctx.Attributes[8:12])
	ctx.BuiltIns.Position = vecmath.Vec4{X: x, Y: y, Z: z, W: 1}
}

func (passthroughVertex) Clone() shader.VertexStage { return passthroughVertex{} }

// solidFragment shades every covered fragment with a fixed color.
type solidFragment struct{ color vecmath.Vec4 }

func (solidFragment) Layout() shader.StageLayout { return shader.StageLayout{} }

func (f solidFragment) Main(ctx *shader.ExecContext) {
	ctx.BuiltIns.FragColor = f.color
}

func (f solidFragment) Clone() shader.FragmentStage { return f }

func decodeF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func encodeTriangle(coords ...float32) []byte {
	out := make([]byte, len(coords)*4)
	for i, c := range coords {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], math.Float32bits(c))
	}
	return out
}

// TestDeviceReverseZDepthRejectsDeeperTriangle exercises the public
// Device API end to end: clear a reverse-Z depth attachment to 0.0, draw
// a white triangle at depth 0.5 with depthFunc=GREATER, then draw an
// identical red triangle at the deeper depth 0.3 and confirm it is
// rejected, leaving the white triangle's color and depth untouched.
func TestDeviceReverseZDepthRejectsDeeperTriangle(t *testing.T) {
	dev := NewDevice(WithWorkerCount(2))
	defer dev.Close()

	fb := dev.NewFramebuffer(true)
	colorTex := dev.NewTexture(texture.Kind2D, texture.FormatRGBA8, 8, 8, texture.UsageColorAttachment)
	depthTex := dev.NewTexture(texture.Kind2D, texture.FormatFloat32, 8, 8, texture.UsageDepthAttachment)
	fb.SetColorAttachment(colorTex, 0, 0)
	fb.SetDepthAttachment(depthTex, 0, 0)

	dev.BeginRenderPass(fb, framebuffer.ClearStates{
		ColorFlag:  true,
		ClearColor: [4]float32{0, 0, 0, 1},
		DepthFlag:  true,
		ClearDepth: 0.0,
	})
	dev.SetViewport(0, 0, 8, 8, 0, 1)

	progWhite := dev.NewProgram()
	if err := progWhite.SetShaders(passthroughVertex{}, solidFragment{color: vecmath.Vec4{X: 1, Y: 1, Z: 1, W: 1}}, nil); err != nil {
		t.Fatalf("SetShaders white: %v", err)
	}
	progRed := dev.NewProgram()
	if err := progRed.SetShaders(passthroughVertex{}, solidFragment{color: vecmath.Vec4{X: 1, Y: 0, Z: 0, W: 1}}, nil); err != nil {
		t.Fatalf("SetShaders red: %v", err)
	}

	attrs := []vertex.AttributeDescriptor{{Size: 12, Stride: 12, Offset: 0}}
	state := dev.NewPipelineState(pipeline.WithDepthTest(raster.DepthGreater, true))

	va := dev.NewVertexArray(attrs, 12, encodeTriangle(-1, -1, 0.5, 1, -1, 0.5, -1, 1, 0.5), []int32{0, 1, 2})
	dev.SetVertexArrayObject(va)
	dev.SetShaderProgram(progWhite)
	dev.SetPipelineStates(state)
	if err := dev.Draw(0, 3); err != nil {
		t.Fatalf("Draw white: %v", err)
	}
	dev.WaitIdle()

	va2 := dev.NewVertexArray(attrs, 12, encodeTriangle(-1, -1, 0.3, 1, -1, 0.3, -1, 1, 0.3), []int32{0, 1, 2})
	dev.SetVertexArrayObject(va2)
	dev.SetShaderProgram(progRed)
	if err := dev.Draw(0, 3); err != nil {
		t.Fatalf("Draw red: %v", err)
	}
	dev.WaitIdle()

	got := fb.Color.GetColorSample(1, 1, 0)
	want := texture.RGBA8{R: 255, G: 255, B: 255, A: 255}
	if got != want {
		t.Errorf("pixel (1,1): got %+v, want %+v (deeper red triangle should have been depth-rejected)", got, want)
	}

	gotDepth := fb.Depth.GetDepthSample(1, 1, 0)
	if gotDepth < 0.499 || gotDepth > 0.501 {
		t.Errorf("depth at (1,1): got %v, want ~0.5 (unchanged by the rejected draw)", gotDepth)
	}
}

// TestDeviceDrawSamplesBoundTexture drives a full-screen textured quad
// through the public Draw path and confirms the sampled color at
// opposite screen corners matches the corresponding texel of a 2x2
// checker texture bound via BindUniformSampler, proving the texture
// store/sampler subsystem is reachable from fragment shading rather
// than only from its own package tests.
func TestDeviceDrawSamplesBoundTexture(t *testing.T) {
	dev := NewDevice(WithWorkerCount(2))
	defer dev.Close()

	fb := dev.NewFramebuffer(true)
	colorTex := dev.NewTexture(texture.Kind2D, texture.FormatRGBA8, 8, 8, texture.UsageColorAttachment)
	fb.SetColorAttachment(colorTex, 0, 0)
	dev.BeginRenderPass(fb, framebuffer.ClearStates{ColorFlag: true, ClearColor: [4]float32{0, 0, 0, 1}})
	dev.SetViewport(0, 0, 8, 8, 0, 1)

	checker := imgbuf.NewBuffer[texture.RGBA8](2, 2, imgbuf.LinearLayout{})
	checker.Set(0, 0, texture.RGBA8{R: 255, A: 255})
	checker.Set(1, 0, texture.RGBA8{G: 255, A: 255})
	checker.Set(0, 1, texture.RGBA8{B: 255, A: 255})
	checker.Set(1, 1, texture.RGBA8{R: 255, G: 255, B: 255, A: 255})

	tex := dev.NewTexture(texture.Kind2D, texture.FormatRGBA8, 2, 2, texture.UsageSampled|texture.UsageUpload)
	if err := tex.SetImageData([]*imgbuf.Buffer[texture.RGBA8]{checker}); err != nil {
		t.Fatalf("SetImageData: %v", err)
	}
	tex.Sampler = texture.SamplerDesc{
		FilterMin: texture.FilterNearest,
		FilterMag: texture.FilterNearest,
		WrapS:     texture.WrapClampToEdge,
		WrapT:     texture.WrapClampToEdge,
	}

	prog := dev.NewProgram()
	if err := prog.SetShaders(texturedVertex{}, texturedFragment{}, nil); err != nil {
		t.Fatalf("SetShaders: %v", err)
	}
	prog.BindUniformSampler(0, tex)

	attrs := []vertex.AttributeDescriptor{
		{Size: 12, Stride: 20, Offset: 0},
		{Size: 8, Stride: 20, Offset: 12},
	}
	// Four corners of a full-screen quad, each carrying the UV of the
	// checker texel it should sample: (0,0)->red, (1,0)->green,
	// (0,1)->blue, (1,1)->white.
	data := encodeTriangle(
		-1, -1, 0.5, 0, 0, // v0 bottom-left-of-NDC -> screen (0,0), uv (0,0)
		1, -1, 0.5, 1, 0, // v1 -> screen (8,0), uv (1,0)
		-1, 1, 0.5, 0, 1, // v2 -> screen (0,8), uv (0,1)
		1, 1, 0.5, 1, 1, // v3 -> screen (8,8), uv (1,1)
	)
	va := dev.NewVertexArray(attrs, 20, data, []int32{0, 1, 2, 1, 3, 2})
	dev.SetVertexArrayObject(va)
	dev.SetShaderProgram(prog)
	dev.SetPipelineStates(dev.NewPipelineState())
	if err := dev.Draw(0, 6); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	dev.WaitIdle()

	nearRed := fb.Color.GetColorSample(1, 1, 0)
	wantRed := texture.RGBA8{R: 255, A: 255}
	if nearRed != wantRed {
		t.Errorf("pixel near uv(0,0): got %+v, want %+v", nearRed, wantRed)
	}

	nearWhite := fb.Color.GetColorSample(6, 6, 0)
	wantWhite := texture.RGBA8{R: 255, G: 255, B: 255, A: 255}
	if nearWhite != wantWhite {
		t.Errorf("pixel near uv(1,1): got %+v, want %+v", nearWhite, wantWhite)
	}
}
