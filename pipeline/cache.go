package pipeline

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/oxy-go/soft/internal/hashutil"
)

// Cache is a process-wide, mutex-guarded store keying identical States
// to a single shared instance, matching spec.md §3's "keyed into a
// process-wide cache".
type Cache struct {
	mu     sync.Mutex
	states map[uint32]State
}

// NewCache creates an empty pipeline-state cache.
func NewCache() *Cache {
	return &Cache{states: make(map[uint32]State)}
}

// Intern returns the canonical cached copy of s, inserting it if this
// is the first time an equivalent state has been requested.
func (c *Cache) Intern(s State) State {
	key := hashState(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.states[key]; ok {
		return existing
	}
	c.states[key] = s
	return s
}

// Len reports how many distinct states are currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.states)
}

func hashState(s State) uint32 {
	putBool := func(h uint32, b bool) uint32 {
		v := uint32(0)
		if b {
			v = 1
		}
		return hashutil.Combine(h, v)
	}
	putInt := func(h uint32, v int) uint32 {
		return hashutil.Combine(h, uint32(v))
	}
	putFloat := func(h uint32, v float32) uint32 {
		return hashutil.Combine(h, float32Bits(v))
	}

	h := uint32(0)
	h = putBool(h, s.Blend)
	h = putInt(h, int(s.BlendParams.SrcRGB))
	h = putInt(h, int(s.BlendParams.DstRGB))
	h = putInt(h, int(s.BlendParams.OpRGB))
	h = putInt(h, int(s.BlendParams.SrcAlpha))
	h = putInt(h, int(s.BlendParams.DstAlpha))
	h = putInt(h, int(s.BlendParams.OpAlpha))
	h = putBool(h, s.DepthTest)
	h = putBool(h, s.DepthMask)
	h = putInt(h, int(s.DepthFunc))
	h = putBool(h, s.CullFace)
	h = putInt(h, int(s.PrimitiveType))
	h = putInt(h, int(s.PolygonMode))
	h = putFloat(h, s.LineWidth)
	return h
}

func float32Bits(f float32) uint32 {
	return hashutil.Murmur3(float32Bytes(f))
}

func float32Bytes(f float32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
	return buf[:]
}
