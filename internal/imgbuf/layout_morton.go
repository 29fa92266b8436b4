package imgbuf

// MortonLayout partitions the image into 32x32 tiles, storing pixels
// within a tile in Z-order (2D Morton code) for improved 2D locality
// over a plain row-major tile (spec.md §4.1).
type MortonLayout struct{}

const (
	mortonTileSize = 32
	mortonBits     = 5 // tileSize == 1<<bits
)

// Init implements Layout: inner dimensions round up to multiples of 32.
func (MortonLayout) Init(width, height int) (int, int) {
	tileW := (width + mortonTileSize - 1) / mortonTileSize
	tileH := (height + mortonTileSize - 1) / mortonTileSize
	return tileW * mortonTileSize, tileH * mortonTileSize
}

// Index implements Layout.
func (MortonLayout) Index(x, y, innerWidth, _ int) int {
	tileWidthInTiles := innerWidth >> mortonBits
	tx, ty := x>>mortonBits, y>>mortonBits
	ix, iy := uint8(x&(mortonTileSize-1)), uint8(y&(mortonTileSize-1))
	morton := encodeMorton2(ix, iy)
	return ((ty*tileWidthInTiles + tx) << mortonBits << mortonBits) + int(morton)
}

// encodeMorton2 interleaves the low 5 bits of x and y into a 10-bit
// Morton (Z-order) code.
//
// Reference: https://gist.github.com/JarkkoPFC/0e4e599320b0cc7ea92df45fb416d79a
func encodeMorton2(x, y uint8) uint16 {
	res := uint32(x) | uint32(y)<<16
	res = (res | (res << 4)) & 0x0f0f0f0f
	res = (res | (res << 2)) & 0x33333333
	res = (res | (res << 1)) & 0x55555555
	return uint16(res | (res >> 15))
}
