package imgbuf

import "testing"

func TestLinearBufferRoundTrip(t *testing.T) {
	b := NewBuffer[uint32](4, 3, LinearLayout{})
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			b.Set(x, y, uint32(y*4+x))
		}
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			got, ok := b.Get(x, y)
			if !ok || got != uint32(y*4+x) {
				t.Fatalf("Get(%d,%d) = %d, %v; want %d, true", x, y, got, ok, y*4+x)
			}
		}
	}
	if got := (LinearLayout{}).Index(3, 2, b.InnerWidth(), b.InnerHeight()); got != 11 {
		t.Fatalf("convertIndex(3,2) = %d; want 11", got)
	}
	if b.InnerWidth() != 4 {
		t.Fatalf("innerWidth = %d; want 4", b.InnerWidth())
	}
}

func TestTiledLayoutOffsets(t *testing.T) {
	b := NewBuffer[uint32](5, 5, TiledLayout{})
	if b.InnerWidth() != 8 || b.InnerHeight() != 8 {
		t.Fatalf("inner size = %dx%d; want 8x8", b.InnerWidth(), b.InnerHeight())
	}
	cases := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{3, 3, 15},
		{4, 0, 16},
		{4, 4, 48},
	}
	for _, c := range cases {
		got := TiledLayout{}.Index(c.x, c.y, b.InnerWidth(), b.InnerHeight())
		if got != c.want {
			t.Errorf("convertIndex(%d,%d) = %d; want %d", c.x, c.y, got, c.want)
		}
	}
}

func TestBufferOutOfRangeIsNoOp(t *testing.T) {
	b := NewBuffer[uint32](2, 2, LinearLayout{})
	b.Set(5, 5, 99)
	if _, ok := b.Get(5, 5); ok {
		t.Fatalf("Get out of range should report false")
	}
	if got, _ := b.Get(0, 0); got != 0 {
		t.Fatalf("out-of-range Set must not disturb the buffer, got %d", got)
	}
}

func TestBufferFlipYPreservesRows(t *testing.T) {
	b := NewBuffer[uint32](2, 2, LinearLayout{})
	b.Set(0, 0, 1)
	b.Set(1, 0, 2)
	b.Set(0, 1, 3)
	b.Set(1, 1, 4)

	out := make([]uint32, 4)
	b.CopyTo(out, true)
	want := []uint32{3, 4, 1, 2}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("flip-y copy = %v; want %v", out, want)
		}
	}
}

func TestBufferSetAllAndClear(t *testing.T) {
	b := NewBuffer[uint32](3, 3, MortonLayout{})
	b.SetAll(7)
	for _, v := range b.Raw() {
		if v != 7 {
			t.Fatalf("SetAll did not touch every inner cell: got %d", v)
		}
	}
	b.Clear()
	for _, v := range b.Raw() {
		if v != 0 {
			t.Fatalf("Clear did not zero every inner cell: got %d", v)
		}
	}
}

func TestBufferRecreateAtSameSizeIsNoOp(t *testing.T) {
	b := NewBuffer[uint32](4, 4, LinearLayout{})
	b.Set(1, 1, 42)
	b.Create(4, 4)
	if got, _ := b.Get(1, 1); got != 42 {
		t.Fatalf("re-Create at identical size must be a no-op, lost value: got %d", got)
	}
}
