package pipeline

import (
	"testing"

	"github.com/oxy-go/soft/raster"
)

func TestNewAppliesDefaults(t *testing.T) {
	s := New()
	if s.DepthFunc != raster.DepthLess {
		t.Fatalf("default DepthFunc = %v; want DepthLess", s.DepthFunc)
	}
	if s.PolygonMode != PolygonFill {
		t.Fatalf("default PolygonMode = %v; want PolygonFill", s.PolygonMode)
	}
	if s.LineWidth != 1 {
		t.Fatalf("default LineWidth = %v; want 1", s.LineWidth)
	}
}

func TestCacheInternsEquivalentStates(t *testing.T) {
	c := NewCache()
	a := New(WithCullFace(), WithDepthTest(raster.DepthLess, true))
	b := New(WithCullFace(), WithDepthTest(raster.DepthLess, true))

	c.Intern(a)
	c.Intern(b)

	if c.Len() != 1 {
		t.Fatalf("cache should have interned equal states as one entry, got %d", c.Len())
	}
}

func TestCacheDistinguishesDifferentStates(t *testing.T) {
	c := NewCache()
	a := New(WithCullFace())
	b := New()

	c.Intern(a)
	c.Intern(b)

	if c.Len() != 2 {
		t.Fatalf("cache should have two distinct entries, got %d", c.Len())
	}
}
