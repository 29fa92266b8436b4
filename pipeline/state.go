// Package pipeline bundles the immutable render state a draw call is
// configured with (spec.md §3 "Pipeline state"), plus the process-wide
// cache that keys identical states to a single shared instance.
// Grounded on original_source's PipelineStates.h / RenderStates.h and
// the teacher's engine/renderer/pipeline package's builder idiom.
package pipeline

import (
	"github.com/oxy-go/soft/raster"
	"github.com/oxy-go/soft/vertex"
)

// PolygonMode selects the rasterizer dispatch (spec.md §4.7).
type PolygonMode int

const (
	PolygonPoint PolygonMode = iota
	PolygonLine
	PolygonFill
)

// State is the full set of fixed-function render states bundled by a
// pipeline object. Immutable once constructed by New.
type State struct {
	Blend       bool
	BlendParams raster.BlendParams

	DepthTest bool
	DepthMask bool
	DepthFunc raster.DepthFunc

	CullFace      bool
	PrimitiveType vertex.PrimitiveType
	PolygonMode   PolygonMode
	LineWidth     float32
}

// Option configures a State under construction.
type Option func(*State)

// WithBlend enables blending with the given parameters.
func WithBlend(params raster.BlendParams) Option {
	return func(s *State) {
		s.Blend = true
		s.BlendParams = params
	}
}

// WithDepthTest enables the depth test with the given function and
// write mask.
func WithDepthTest(fn raster.DepthFunc, mask bool) Option {
	return func(s *State) {
		s.DepthTest = true
		s.DepthFunc = fn
		s.DepthMask = mask
	}
}

// WithCullFace enables back-face culling.
func WithCullFace() Option {
	return func(s *State) { s.CullFace = true }
}

// WithPrimitiveType sets the primitive assembly mode.
func WithPrimitiveType(pt vertex.PrimitiveType) Option {
	return func(s *State) { s.PrimitiveType = pt }
}

// WithPolygonMode sets the rasterizer dispatch mode.
func WithPolygonMode(pm PolygonMode) Option {
	return func(s *State) { s.PolygonMode = pm }
}

// WithLineWidth sets the line/point splat width.
func WithLineWidth(w float32) Option {
	return func(s *State) { s.LineWidth = w }
}

// New constructs a State with the source's field defaults
// (depthFunc=LESS, polygonMode=FILL, lineWidth=1, primitiveType=
// TRIANGLE) then applies opts.
func New(opts ...Option) State {
	s := State{
		DepthMask:     true,
		DepthFunc:     raster.DepthLess,
		PrimitiveType: vertex.PrimitiveTriangles,
		PolygonMode:   PolygonFill,
		LineWidth:     1,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// ToDrawState projects the fixed-function fields the rasterizer itself
// consumes into a raster.DrawState, the translation the driver runs
// once per draw call.
func (s State) ToDrawState() raster.DrawState {
	return raster.DrawState{
		Blend:       s.Blend,
		BlendParams: s.BlendParams,
		DepthTest:   s.DepthTest,
		DepthMask:   s.DepthMask,
		DepthFunc:   s.DepthFunc,
		CullFace:    s.CullFace,
		LineWidth:   s.LineWidth,
	}
}
