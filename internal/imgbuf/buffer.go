// Package imgbuf implements the typed 2D image buffer that underlies
// every framebuffer attachment and texture mip level in the rasterizer.
// It replaces the virtual-base-class buffer/layout hierarchy of the
// original design (spec.md §9) with a small Layout interface selected at
// construction time.
package imgbuf

// Layout maps logical (x, y) coordinates to a linear storage offset and
// determines the buffer's inner (allocated) dimensions. The three
// concrete layouts below are the only implementations required by the
// spec; user code selects one at construction time via NewBuffer.
type Layout interface {
	// Init computes the inner (allocated) width and height for a buffer
	// of the given logical width and height.
	Init(width, height int) (innerWidth, innerHeight int)

	// Index converts logical coordinates into a linear offset within a
	// buffer whose inner dimensions were produced by Init.
	Index(x, y, innerWidth, innerHeight int) int
}

// Buffer is a 2D array of typed elements with a logical (Width, Height)
// rectangle and an inner (allocated) size that may be larger, depending
// on the chosen Layout. Get/Set are no-ops outside the logical
// rectangle.
type Buffer[T any] struct {
	width, height           int
	innerWidth, innerHeight int
	data                    []T
	layout                  Layout
}

// NewBuffer allocates a buffer of the given logical dimensions using
// layout to determine storage order. Per spec.md §4.1, w*h must be > 0;
// callers that pass zero-area dimensions receive an empty, usable-but-
// inert buffer (a Resource allocation failure per spec.md §7, logged by
// callers that require a value handle — imgbuf itself has no logger
// dependency and stays silent, matching Buffer.h's "if (w > 0 && h > 0)"
// guard).
func NewBuffer[T any](width, height int, layout Layout) *Buffer[T] {
	b := &Buffer[T]{layout: layout}
	b.Create(width, height)
	return b
}

// NewBufferFromData allocates a buffer and installs data as its backing
// storage. data must already be sized innerWidth*innerHeight for the
// chosen layout; the caller retains ownership, matching the source's
// "no-op deleter" intent for externally supplied bytes (spec.md §9).
func NewBufferFromData[T any](width, height int, layout Layout, data []T) *Buffer[T] {
	b := &Buffer[T]{layout: layout}
	if width <= 0 || height <= 0 {
		return b
	}
	innerW, innerH := layout.Init(width, height)
	b.width, b.height = width, height
	b.innerWidth, b.innerHeight = innerW, innerH
	b.data = data
	return b
}

// Create (re)initializes the buffer at the given logical dimensions. A
// call at the buffer's current logical size is a no-op, matching
// Buffer.h's create().
func (b *Buffer[T]) Create(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if b.width == width && b.height == height && b.data != nil {
		return
	}
	b.width, b.height = width, height
	innerW, innerH := b.layout.Init(width, height)
	b.innerWidth, b.innerHeight = innerW, innerH
	b.data = make([]T, innerW*innerH)
}

// Destroy releases the buffer's storage and resets its dimensions to
// zero.
func (b *Buffer[T]) Destroy() {
	b.width, b.height = 0, 0
	b.innerWidth, b.innerHeight = 0, 0
	b.data = nil
}

// Empty reports whether the buffer currently has no backing storage.
func (b *Buffer[T]) Empty() bool { return b.data == nil }

// Width returns the buffer's logical width.
func (b *Buffer[T]) Width() int { return b.width }

// Height returns the buffer's logical height.
func (b *Buffer[T]) Height() int { return b.height }

// InnerWidth returns the buffer's allocated (storage) width.
func (b *Buffer[T]) InnerWidth() int { return b.innerWidth }

// InnerHeight returns the buffer's allocated (storage) height.
func (b *Buffer[T]) InnerHeight() int { return b.innerHeight }

// Raw returns the buffer's backing storage in layout-native order.
func (b *Buffer[T]) Raw() []T { return b.data }

func (b *Buffer[T]) inRange(x, y int) bool {
	return b.data != nil && x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Get returns the value at (x, y) and true, or the zero value and false
// if (x, y) is outside the logical rectangle.
func (b *Buffer[T]) Get(x, y int) (T, bool) {
	if !b.inRange(x, y) {
		var zero T
		return zero, false
	}
	return b.data[b.layout.Index(x, y, b.innerWidth, b.innerHeight)], true
}

// GetPtr returns a pointer to the value at (x, y), or nil if (x, y) is
// outside the logical rectangle. The pointer aliases the buffer's
// backing storage.
func (b *Buffer[T]) GetPtr(x, y int) *T {
	if !b.inRange(x, y) {
		return nil
	}
	return &b.data[b.layout.Index(x, y, b.innerWidth, b.innerHeight)]
}

// Set stores v at (x, y). Out-of-range coordinates are a no-op.
func (b *Buffer[T]) Set(x, y int, v T) {
	if !b.inRange(x, y) {
		return
	}
	b.data[b.layout.Index(x, y, b.innerWidth, b.innerHeight)] = v
}

// Clear zeroes every inner cell of the buffer.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.data {
		b.data[i] = zero
	}
}

// SetAll sets every inner cell of the buffer to v.
func (b *Buffer[T]) SetAll(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// CopyTo copies this buffer's raw storage into dst, which must already
// be sized to match. When flipY is true, row order is reversed while
// row content is preserved (spec.md §4.1's "flip-y copy").
func (b *Buffer[T]) CopyTo(dst []T, flipY bool) {
	if b.data == nil {
		return
	}
	if !flipY {
		copy(dst, b.data)
		return
	}
	for row := 0; row < b.innerHeight; row++ {
		srcRow := b.data[row*b.innerWidth : (row+1)*b.innerWidth]
		dstRow := dst[(b.innerHeight-1-row)*b.innerWidth : (b.innerHeight-row)*b.innerWidth]
		copy(dstRow, srcRow)
	}
}
