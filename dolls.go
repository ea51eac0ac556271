package oceaninterp

// SelectDoll returns the index into russianDoll of the largest
// sub-stencil whose nodes are all wet, given the per-node wet mask for
// the full kernel the dolls were cut from. Dolls earlier in the slice
// take priority when more than one fits (find_which_points_for_each_kernel
// of kernel_and_weight.py, adapted from a batch set-partition into a
// per-point selector since this package processes one query point's
// stencil at a time). Returns -1 if even the smallest doll has a dry
// node, meaning the point cannot be interpolated at all.
func SelectDoll(wet []bool, russianDoll []Doll) int {
	for i, doll := range russianDoll {
		allWet := true
		for _, idx := range doll {
			if idx >= len(wet) || !wet[idx] {
				allWet = false
				break
			}
		}
		if allWet {
			return i
		}
	}
	return -1
}
