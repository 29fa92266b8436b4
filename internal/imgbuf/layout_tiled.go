package imgbuf

// TiledLayout partitions the image into 4x4 tiles stored contiguously,
// row-major within each tile, tiles row-major across the image. This
// improves cache locality for the neighborhood accesses the rasterizer's
// pixel-quad dispatch performs (spec.md §4.1).
type TiledLayout struct{}

const (
	tiledTileSize = 4
	tiledBits     = 2 // tileSize == 1<<bits
)

// Init implements Layout: inner dimensions round up to multiples of 4.
func (TiledLayout) Init(width, height int) (int, int) {
	tileW := (width + tiledTileSize - 1) / tiledTileSize
	tileH := (height + tiledTileSize - 1) / tiledTileSize
	return tileW * tiledTileSize, tileH * tiledTileSize
}

// Index implements Layout.
func (TiledLayout) Index(x, y, innerWidth, _ int) int {
	tileWidthInTiles := innerWidth >> tiledBits
	tx, ty := x>>tiledBits, y>>tiledBits
	ix, iy := x&(tiledTileSize-1), y&(tiledTileSize-1)
	return ((ty*tileWidthInTiles + tx) << tiledBits << tiledBits) + (iy << tiledBits) + ix
}
