package framebuffer

import (
	"testing"

	"github.com/oxy-go/soft/texture"
)

func TestClearColorFillsEveryPixel(t *testing.T) {
	tex := texture.NewTexture(texture.Kind2D, texture.FormatRGBA8, 4, 4, texture.UsageColorAttachment)
	tex.InitStorage()

	fb := NewFramebuffer(true)
	fb.SetColorAttachment(tex, 0, 0)
	fb.Clear(ClearStates{ColorFlag: true, ClearColor: [4]float32{1, 0, 0, 1}})

	px, _ := tex.Layers[0].Levels[0].Get(2, 2)
	if px != (texture.RGBA8{R: 255, G: 0, B: 0, A: 255}) {
		t.Fatalf("cleared pixel = %+v; want red", px)
	}
}

func TestAttachmentSizeMismatchIsLoggedNotFatal(t *testing.T) {
	color := texture.NewTexture(texture.Kind2D, texture.FormatRGBA8, 4, 4, texture.UsageColorAttachment)
	color.InitStorage()
	depth := texture.NewTexture(texture.Kind2D, texture.FormatFloat32, 8, 8, texture.UsageDepthAttachment)
	depth.InitStorage()

	fb := NewFramebuffer(true)
	fb.SetColorAttachment(color, 0, 0)
	fb.SetDepthAttachment(depth, 0, 0)

	// Must not panic despite the mismatch; the pass is expected to
	// continue with undefined results per spec.md §7.
	fb.CheckAttachmentsAgree()
}
