package texture

import (
	"testing"

	"github.com/oxy-go/soft/internal/imgbuf"
	"github.com/oxy-go/soft/internal/mathutil"
	"github.com/oxy-go/soft/vecmath"
)

func checkerBuffer() *imgbuf.Buffer[RGBA8] {
	buf := imgbuf.NewBuffer[RGBA8](2, 2, imgbuf.LinearLayout{})
	buf.Set(0, 0, RGBA8{255, 0, 0, 255})
	buf.Set(1, 0, RGBA8{0, 255, 0, 255})
	buf.Set(0, 1, RGBA8{0, 0, 255, 255})
	buf.Set(1, 1, RGBA8{255, 255, 255, 255})
	return buf
}

func TestBilinearOnCheckerCenter(t *testing.T) {
	buf := checkerBuffer()
	got := SampleBilinear(buf, vecmath.Vec2{X: 0.5, Y: 0.5}, WrapClampToEdge, WrapClampToEdge, [2]int{}, RGBA8{})

	within := func(got, want uint8) bool {
		d := int(got) - int(want)
		if d < 0 {
			d = -d
		}
		return d <= 1
	}
	if !within(got.R, 128) || !within(got.G, 128) || !within(got.B, 128) || !within(got.A, 255) {
		t.Fatalf("bilinear center = %+v; want ~ (128,128,128,255)", got)
	}
}

func TestNearestOnTexelAlignedUV(t *testing.T) {
	buf := checkerBuffer()
	got := SampleNearest(buf, vecmath.Vec2{X: 0.25, Y: 0.25}, WrapClampToEdge, WrapClampToEdge, [2]int{}, RGBA8{})
	want := RGBA8{255, 0, 0, 255}
	if got != want {
		t.Fatalf("nearest(0,0) = %+v; want %+v", got, want)
	}

	got = SampleNearest(buf, vecmath.Vec2{X: 0.75, Y: 0.75}, WrapClampToEdge, WrapClampToEdge, [2]int{}, RGBA8{})
	want = RGBA8{255, 255, 255, 255}
	if got != want {
		t.Fatalf("nearest(1,1) = %+v; want %+v", got, want)
	}
}

func TestRepeatWrapIsPeriodic(t *testing.T) {
	buf := checkerBuffer()
	base := SampleNearest(buf, vecmath.Vec2{X: 0.25, Y: 0.25}, WrapRepeat, WrapRepeat, [2]int{}, RGBA8{})
	shifted := SampleNearest(buf, vecmath.Vec2{X: 1.25, Y: 0.25}, WrapRepeat, WrapRepeat, [2]int{}, RGBA8{})
	if base != shifted {
		t.Fatalf("repeat wrap not periodic: base=%+v shifted=%+v", base, shifted)
	}
}

func TestClampToBorderOutsideRange(t *testing.T) {
	buf := checkerBuffer()
	border := RGBA8{9, 9, 9, 9}
	got := PixelWithWrap(buf, -1, 0, WrapClampToBorder, WrapClampToBorder, border)
	if got != border {
		t.Fatalf("clamp-to-border out of range = %+v; want %+v", got, border)
	}
	got = PixelWithWrap(buf, 5, 0, WrapClampToBorder, WrapClampToBorder, border)
	if got != border {
		t.Fatalf("clamp-to-border out of range = %+v; want %+v", got, border)
	}
}

func TestMipmapLevelDimensions(t *testing.T) {
	layer := &TextureImage[RGBA8]{Levels: []*imgbuf.Buffer[RGBA8]{imgbuf.NewBuffer[RGBA8](5, 3, imgbuf.LinearLayout{})}}
	GenerateMipmaps(layer, true)

	wantLevels := 3 // floor(log2(5))+1 = 3
	if len(layer.Levels) != wantLevels {
		t.Fatalf("levelCount = %d; want %d", len(layer.Levels), wantLevels)
	}
	for k, lvl := range layer.Levels {
		wantW := mathutil.Max(1, 5>>uint(k))
		wantH := mathutil.Max(1, 3>>uint(k))
		if lvl.Width() != wantW || lvl.Height() != wantH {
			t.Fatalf("level %d dims = %dx%d; want %dx%d", k, lvl.Width(), lvl.Height(), wantW, wantH)
		}
	}
}

func TestSampleEmptyTextureReturnsZeroValue(t *testing.T) {
	img := &TextureImage[RGBA8]{}
	got := Sample(img, DefaultSamplerDesc(), vecmath.Vec2{X: 0.5, Y: 0.5}, 0)
	if got != (RGBA8{}) {
		t.Fatalf("sampling empty texture = %+v; want zero value", got)
	}
}

func TestSelectCubeFacePositiveX(t *testing.T) {
	face, _ := SelectCubeFace(vecmath.Vec3{X: 1, Y: 0, Z: 0})
	if face != FacePosX {
		t.Fatalf("face = %v; want FacePosX", face)
	}
}
