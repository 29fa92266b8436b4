// Package imgio provides diagnostic PNG encode/decode for resolved
// color buffers, and a raw binary dump/load for texture mip chains
// (spec.md §6 "diagnostic dump"). PNG decoding is used to load texture
// sources; encoding is used to snapshot a resolved framebuffer to disk
// for inspection, following the pack's convention (gioui-gio's raster
// package and the x/image module) of reaching for golang.org/x/image
// rather than hand-rolling image codecs.
package imgio

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/oxy-go/soft/internal/imgbuf"
)

// RGBA8 is a 4-channel 8-bit-per-channel pixel, the buffer element type
// this package encodes and decodes.
type RGBA8 struct {
	R, G, B, A uint8
}

// EncodePNG writes buf's contents to w as a PNG, row 0 at the top.
func EncodePNG(w io.Writer, buf *imgbuf.Buffer[RGBA8]) error {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width(), buf.Height()))
	for y := 0; y < buf.Height(); y++ {
		for x := 0; x < buf.Width(); x++ {
			px, _ := buf.Get(x, y)
			img.SetRGBA(x, y, color.RGBA{R: px.R, G: px.G, B: px.B, A: px.A})
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imgio: encode png: %w", err)
	}
	return nil
}

// DecodePNG reads a PNG from r into a newly allocated Buffer, resampling
// with golang.org/x/image/draw when the source isn't already RGBA so
// every decoded texture source ends up in a single uniform pixel shape.
func DecodePNG(r io.Reader, layout imgbuf.Layout) (*imgbuf.Buffer[RGBA8], error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imgio: decode png: %w", err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	buf := imgbuf.NewBuffer[RGBA8](bounds.Dx(), bounds.Dy(), layout)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := rgba.RGBAAt(x, y)
			buf.Set(x, y, RGBA8{R: c.R, G: c.G, B: c.B, A: c.A})
		}
	}
	return buf, nil
}

// DumpLevels writes the concatenated raw pixel bytes of a texture's mip
// levels to w, each level prefixed with a little-endian (width, height)
// header, for diagnostic inspection outside the process.
func DumpLevels(w io.Writer, levels [][]RGBA8, widths, heights []int) error {
	if len(levels) != len(widths) || len(levels) != len(heights) {
		return fmt.Errorf("imgio: dump levels: mismatched level/width/height counts")
	}
	for i, level := range levels {
		header := [8]byte{}
		binary.LittleEndian.PutUint32(header[0:4], uint32(widths[i]))
		binary.LittleEndian.PutUint32(header[4:8], uint32(heights[i]))
		if _, err := w.Write(header[:]); err != nil {
			return fmt.Errorf("imgio: dump levels: write header: %w", err)
		}
		for _, px := range level {
			if _, err := w.Write([]byte{px.R, px.G, px.B, px.A}); err != nil {
				return fmt.Errorf("imgio: dump levels: write pixel: %w", err)
			}
		}
	}
	return nil
}

// LoadLevels reads back the mip chain a prior DumpLevels call wrote,
// reconstructing each level as a Buffer over the read pixel data
// directly, without a separate Set-per-pixel copy.
func LoadLevels(r io.Reader, layout imgbuf.Layout) ([]*imgbuf.Buffer[RGBA8], error) {
	var levels []*imgbuf.Buffer[RGBA8]
	for {
		var header [8]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("imgio: load levels: read header: %w", err)
		}
		width := int(binary.LittleEndian.Uint32(header[0:4]))
		height := int(binary.LittleEndian.Uint32(header[4:8]))

		pixels := make([]RGBA8, width*height)
		for i := range pixels {
			var px [4]byte
			if _, err := io.ReadFull(r, px[:]); err != nil {
				return nil, fmt.Errorf("imgio: load levels: read pixel: %w", err)
			}
			pixels[i] = RGBA8{R: px[0], G: px[1], B: px[2], A: px[3]}
		}
		levels = append(levels, imgbuf.NewBufferFromData(width, height, layout, pixels))
	}
	return levels, nil
}
