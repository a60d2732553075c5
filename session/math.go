package session

import "golang.org/x/exp/constraints"

// clamp restricts v to the closed interval [lo, hi].
func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(hi, v))
}
