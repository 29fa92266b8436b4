package raster

// DepthFunc selects the comparison used when testing an incoming sample
// depth against the stored depth (spec.md §4.8).
type DepthFunc int

const (
	DepthNever DepthFunc = iota
	DepthLess
	DepthEqual
	DepthLEqual
	DepthGreater
	DepthNotEqual
	DepthGEqual
	DepthAlways
)

const depthEqualEpsilon = 1e-5

// DepthTestPasses compares an incoming depth d against the stored depth
// stored using fn, matching spec.md §4.8's eight-way comparison
// (EQUAL uses an epsilon tolerance).
func DepthTestPasses(fn DepthFunc, d, stored float32) bool {
	switch fn {
	case DepthNever:
		return false
	case DepthLess:
		return d < stored
	case DepthEqual:
		diff := d - stored
		if diff < 0 {
			diff = -diff
		}
		return diff <= depthEqualEpsilon
	case DepthLEqual:
		return d <= stored
	case DepthGreater:
		return d > stored
	case DepthNotEqual:
		diff := d - stored
		if diff < 0 {
			diff = -diff
		}
		return diff > depthEqualEpsilon
	case DepthGEqual:
		return d >= stored
	case DepthAlways:
		return true
	default:
		return false
	}
}
