package raster

import (
	"github.com/oxy-go/soft/framebuffer"
	"github.com/oxy-go/soft/internal/workpool"
	"github.com/oxy-go/soft/vecmath"
)

// ResolveMSAA averages every covered attachment's per-pixel samples down
// to a single color, one row of work per pool task (spec.md §4.10). A
// pixel none of whose samples were ever written resolves to whatever
// its samples currently hold (typically the clear color), matching a
// straight box-filter resolve.
func ResolveMSAA(pool *workpool.Pool, color *framebuffer.Attachment) {
	if color == nil || color.Empty() || color.SampleCount() <= 1 {
		return
	}
	w, h := color.Dims()
	samples := color.SampleCount()

	for y := 0; y < h; y++ {
		row := y
		pool.Push(func(threadID int) {
			for x := 0; x < w; x++ {
				resolvePixel(color, x, row, samples)
			}
		})
	}
	pool.WaitTasksFinish()
}

func resolvePixel(color *framebuffer.Attachment, x, y, samples int) {
	var sum vecmath.Vec4
	for s := 0; s < samples; s++ {
		sum = sum.Add(rgba8ToVec4(color.GetColorSample(x, y, s)))
	}
	resolved := vec4ToRGBA8(sum.Scale(1 / float32(samples)))
	for s := 0; s < samples; s++ {
		color.SetColorSample(x, y, s, resolved)
	}
}
