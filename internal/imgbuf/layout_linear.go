package imgbuf

// LinearLayout stores rows contiguously: offset = x + y*innerWidth. The
// inner rectangle equals the logical rectangle.
type LinearLayout struct{}

// Init implements Layout.
func (LinearLayout) Init(width, height int) (int, int) {
	return width, height
}

// Index implements Layout.
func (LinearLayout) Index(x, y, innerWidth, _ int) int {
	return x + y*innerWidth
}
