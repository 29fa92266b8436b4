// Package mathutil collects the small ordered-value helpers duplicated
// per-package by the pack this renderer draws its shape from (each of
// gogpu-gg's backends hand-rolls its own minf/maxf/clampInt); a single
// generic set removes that duplication using golang.org/x/exp/constraints,
// the pack's own generics-bound-numeric-type dependency.
package mathutil

import "golang.org/x/exp/constraints"

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
