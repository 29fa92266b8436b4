package framebuffer

import "github.com/oxy-go/soft/texture"

// SampleCount returns how many depth/color samples each pixel of a's
// storage carries (1 or 4).
func (a *Attachment) SampleCount() int { return a.sampleCount() }

// Dims returns the pixel dimensions of a's bound mip level.
func (a *Attachment) Dims() (w, h int) { return a.dims() }

// GetColorSample reads one MSAA sample (or the sole sample when
// single-sampled) of the color attachment at pixel (x,y).
func (a *Attachment) GetColorSample(x, y, sample int) texture.RGBA8 {
	t := a.Texture
	if t.MultiSample {
		cell, ok := t.MultiSampleLayers[a.Layer].Get(x, y)
		if !ok {
			return texture.RGBA8{}
		}
		return cell.Samples[sample]
	}
	px, _ := t.Layers[a.Layer].Levels[a.Level].Get(x, y)
	return px
}

// SetColorSample writes one MSAA sample of the color attachment.
func (a *Attachment) SetColorSample(x, y, sample int, v texture.RGBA8) {
	t := a.Texture
	if t.MultiSample {
		cell := t.MultiSampleLayers[a.Layer].GetPtr(x, y)
		if cell == nil {
			return
		}
		cell.Samples[sample] = v
		return
	}
	t.Layers[a.Layer].Levels[a.Level].Set(x, y, v)
}

// GetDepthSample reads one MSAA depth sample.
func (a *Attachment) GetDepthSample(x, y, sample int) float32 {
	t := a.Texture
	if t.MultiSample {
		cell, ok := t.DepthMultiSampleLayers[a.Layer].Get(x, y)
		if !ok {
			return 0
		}
		return cell.Samples[sample]
	}
	d, _ := t.DepthLayers[a.Layer].Levels[a.Level].Get(x, y)
	return d
}

// SetDepthSample writes one MSAA depth sample.
func (a *Attachment) SetDepthSample(x, y, sample int, v float32) {
	t := a.Texture
	if t.MultiSample {
		cell := t.DepthMultiSampleLayers[a.Layer].GetPtr(x, y)
		if cell == nil {
			return
		}
		cell.Samples[sample] = v
		return
	}
	t.DepthLayers[a.Layer].Levels[a.Level].Set(x, y, v)
}

// Empty reports whether the attachment has no bound texture.
func (a *Attachment) Empty() bool { return a.empty() }
