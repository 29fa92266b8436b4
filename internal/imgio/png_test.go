package imgio

import (
	"bytes"
	"testing"

	"github.com/oxy-go/soft/internal/imgbuf"
)

func TestPNGRoundTrip(t *testing.T) {
	buf := imgbuf.NewBuffer[RGBA8](2, 2, imgbuf.LinearLayout{})
	buf.Set(0, 0, RGBA8{255, 0, 0, 255})
	buf.Set(1, 0, RGBA8{0, 255, 0, 255})
	buf.Set(0, 1, RGBA8{0, 0, 255, 255})
	buf.Set(1, 1, RGBA8{255, 255, 255, 255})

	var out bytes.Buffer
	if err := EncodePNG(&out, buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	decoded, err := DecodePNG(&out, imgbuf.LinearLayout{})
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if decoded.Width() != 2 || decoded.Height() != 2 {
		t.Fatalf("decoded size = %dx%d; want 2x2", decoded.Width(), decoded.Height())
	}

	px, _ := decoded.Get(0, 0)
	if px != (RGBA8{255, 0, 0, 255}) {
		t.Fatalf("pixel (0,0) = %+v; want red", px)
	}
	px = mustGet(t, decoded, 1, 1)
	if px != (RGBA8{255, 255, 255, 255}) {
		t.Fatalf("pixel (1,1) = %+v; want white", px)
	}
}

func mustGet(t *testing.T, buf *imgbuf.Buffer[RGBA8], x, y int) RGBA8 {
	t.Helper()
	px, ok := buf.Get(x, y)
	if !ok {
		t.Fatalf("Get(%d,%d) out of range", x, y)
	}
	return px
}

func TestDumpLevelsRejectsMismatchedLengths(t *testing.T) {
	err := DumpLevels(&bytes.Buffer{}, [][]RGBA8{{{}}}, []int{1, 2}, []int{1})
	if err == nil {
		t.Fatalf("expected error on mismatched slice lengths")
	}
}

func TestDumpLoadLevelsRoundTrip(t *testing.T) {
	level0 := []RGBA8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}, {255, 255, 255, 255}}
	level1 := []RGBA8{{128, 128, 128, 255}}

	var out bytes.Buffer
	if err := DumpLevels(&out, [][]RGBA8{level0, level1}, []int{2, 1}, []int{2, 1}); err != nil {
		t.Fatalf("DumpLevels: %v", err)
	}

	levels, err := LoadLevels(&out, imgbuf.LinearLayout{})
	if err != nil {
		t.Fatalf("LoadLevels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("got %d levels, want 2", len(levels))
	}
	if levels[0].Width() != 2 || levels[0].Height() != 2 {
		t.Fatalf("level 0 size = %dx%d, want 2x2", levels[0].Width(), levels[0].Height())
	}
	if px := mustGet(t, levels[0], 1, 0); px != (RGBA8{0, 255, 0, 255}) {
		t.Fatalf("level 0 pixel (1,0) = %+v; want green", px)
	}
	if px := mustGet(t, levels[1], 0, 0); px != (RGBA8{128, 128, 128, 255}) {
		t.Fatalf("level 1 pixel (0,0) = %+v; want gray", px)
	}
}
