package framebuffer

import "github.com/oxy-go/soft/texture"

func colorToRGBA8(c [4]float32) texture.RGBA8 {
	clamp := func(x float32) uint8 {
		if x < 0 {
			return 0
		}
		if x > 1 {
			return 255
		}
		return uint8(x * 255)
	}
	return texture.RGBA8{R: clamp(c[0]), G: clamp(c[1]), B: clamp(c[2]), A: clamp(c[3])}
}

// clearColorAttachment fills a's storage with clearColor, broadcasting
// across every MSAA sample when multisample (spec.md §4.11).
func clearColorAttachment(a *Attachment, clearColor [4]float32) {
	col := colorToRGBA8(clearColor)
	t := a.Texture
	if t.MultiSample {
		buf := t.MultiSampleLayers[a.Layer]
		var cell texture.MultiSample4
		for i := range cell.Samples {
			cell.Samples[i] = col
		}
		buf.SetAll(cell)
		return
	}
	img := t.Layers[a.Layer]
	if a.Level < len(img.Levels) {
		img.Levels[a.Level].SetAll(col)
	}
}

// clearDepthAttachment fills a's storage with clearDepth, broadcasting
// across every MSAA sample when multisample.
func clearDepthAttachment(a *Attachment, clearDepth float32) {
	t := a.Texture
	if t.MultiSample {
		buf := t.DepthMultiSampleLayers[a.Layer]
		var cell texture.MultiSampleDepth4
		for i := range cell.Samples {
			cell.Samples[i] = clearDepth
		}
		buf.SetAll(cell)
		return
	}
	img := t.DepthLayers[a.Layer]
	if a.Level < len(img.Levels) {
		img.Levels[a.Level].SetAll(clearDepth)
	}
}
