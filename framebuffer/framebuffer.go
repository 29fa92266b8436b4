// Package framebuffer implements render targets: a color and/or depth
// attachment plus the clear/agreement logic the render pass driver
// needs (spec.md §3 "Framebuffer", §4.11). Grounded on the shape of
// original_source's FrameBuffer.h, with the OpenGL-specific binding
// calls replaced by direct writes into the attached texture's storage
// since this renderer has no separate GPU-side object to bind.
package framebuffer

import (
	"github.com/oxy-go/soft/internal/rlog"
	"github.com/oxy-go/soft/texture"
)

// Attachment references a texture plus the layer (cube face) and mip
// level it targets, matching FrameBufferAttachment.
type Attachment struct {
	Texture *texture.Texture
	Layer   int
	Level   int
}

func (a *Attachment) empty() bool { return a == nil || a.Texture == nil }

func (a *Attachment) sampleCount() int {
	if a.empty() {
		return 0
	}
	if a.Texture.MultiSample {
		return 4
	}
	return 1
}

func (a *Attachment) dims() (w, h int) {
	if a.empty() {
		return 0, 0
	}
	if a.Texture.Format == texture.FormatFloat32 && !a.Texture.MultiSample {
		img := a.Texture.DepthLayers[a.Layer]
		return img.LevelWidth(a.Level), img.LevelHeight(a.Level)
	}
	if a.Texture.MultiSample {
		return a.Texture.Width, a.Texture.Height
	}
	img := a.Texture.Layers[a.Layer]
	return img.LevelWidth(a.Level), img.LevelHeight(a.Level)
}

// Framebuffer bundles an optional color and depth attachment.
type Framebuffer struct {
	Offscreen bool
	Color     *Attachment
	Depth     *Attachment
}

// NewFramebuffer creates an empty framebuffer; attachments are set via
// SetColorAttachment / SetDepthAttachment.
func NewFramebuffer(offscreen bool) *Framebuffer {
	return &Framebuffer{Offscreen: offscreen}
}

// SetColorAttachment installs the color attachment, retaining a
// reference to tex for the lifetime of the binding.
func (fb *Framebuffer) SetColorAttachment(tex *texture.Texture, layer, level int) {
	if fb.Color != nil && fb.Color.Texture != nil {
		if fb.Color.Texture.Release() {
			// last reference dropped; nothing further to release here,
			// the texture's own storage is garbage collected normally.
		}
	}
	tex.Retain()
	fb.Color = &Attachment{Texture: tex, Layer: layer, Level: level}

	if tex.Usage&texture.UsageColorAttachment == 0 {
		rlog.Errorf("framebuffer: texture %d bound as color attachment without UsageColorAttachment", tex.ID())
	}
	if !fb.Offscreen && tex.Usage&texture.UsageRendererOutput == 0 {
		rlog.Errorf("framebuffer: texture %d bound to a presentable framebuffer without UsageRendererOutput", tex.ID())
	}
}

// SetDepthAttachment installs the depth attachment.
func (fb *Framebuffer) SetDepthAttachment(tex *texture.Texture, layer, level int) {
	if fb.Depth != nil && fb.Depth.Texture != nil {
		fb.Depth.Texture.Release()
	}
	tex.Retain()
	fb.Depth = &Attachment{Texture: tex, Layer: layer, Level: level}

	if tex.Usage&texture.UsageDepthAttachment == 0 {
		rlog.Errorf("framebuffer: texture %d bound as depth attachment without UsageDepthAttachment", tex.ID())
	}
}

// CheckAttachmentsAgree logs an assertion failure (spec.md §7) if the
// color and depth attachments disagree on width, height, or sample
// count, but never blocks the caller: the pass still runs with the
// last valid state.
func (fb *Framebuffer) CheckAttachmentsAgree() {
	if fb.Color.empty() || fb.Depth.empty() {
		return
	}
	cw, ch := fb.Color.dims()
	dw, dh := fb.Depth.dims()
	if cw != dw || ch != dh {
		rlog.Errorf("framebuffer: attachment size mismatch: color=%dx%d depth=%dx%d", cw, ch, dw, dh)
	}
	if fb.Color.sampleCount() != fb.Depth.sampleCount() {
		rlog.Errorf("framebuffer: attachment sample-count mismatch: color=%d depth=%d", fb.Color.sampleCount(), fb.Depth.sampleCount())
	}
}

// ClearStates selects which attachments to clear and to what values on
// BeginRenderPass (spec.md §4.11).
type ClearStates struct {
	ColorFlag  bool
	ClearColor [4]float32
	DepthFlag  bool
	ClearDepth float32
}

// Clear fills the bound attachments per states.
func (fb *Framebuffer) Clear(states ClearStates) {
	if states.ColorFlag && !fb.Color.empty() {
		clearColorAttachment(fb.Color, states.ClearColor)
	}
	if states.DepthFlag && !fb.Depth.empty() {
		clearDepthAttachment(fb.Depth, states.ClearDepth)
	}
}
