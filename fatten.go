package oceaninterp

// FattenH expands a single cell index into the full horizontal kernel
// around it: the naive (center+offset) index for every kernel node,
// re-resolved through the topology's move sequence whenever the naive
// index falls off the grid or crosses a face seam (fatten_ind_h of
// kernel_and_weight.py).
func FattenH(center Index, kernel Kernel, topo Topology) []Index {
	out := make([]Index, len(kernel))
	naive := make([]Index, len(kernel))
	for i, o := range kernel {
		naive[i] = Index{Face: center.Face, Iy: center.Iy + o.Dy, Ix: center.Ix + o.Dx}
	}
	illegal := topo.CheckIllegal(naive)
	for i, o := range kernel {
		if !illegal[i] {
			out[i] = naive[i]
			continue
		}
		out[i] = topo.IndMoves(center, translateOffset(o))
	}
	return out
}

// FattenV expands a single vertical level into the two levels a
// vertical kernel needs: itself, and its neighbor (the layer above,
// clamped to the surface so it never goes negative — see
// fatten_linear_dim's `minimum` clamp in kernel_and_weight.py). A
// nearest kernel needs only the level itself.
func FattenV(iz int, kernel VKernel) []int {
	if kernel == VNearest {
		return []int{iz}
	}
	upper := iz - 1
	if upper < 0 {
		upper = 0
	}
	return []int{iz, upper}
}

// FattenT expands a single stored time index into the two indices a
// temporal kernel needs: itself and the next stored time, clamped to
// itMax (fatten_ind_4d's tkernel handling). A nearest kernel needs only
// the index itself.
func FattenT(it, itMax int, kernel TKernel) []int {
	if kernel == TNearest {
		return []int{it}
	}
	next := it + 1
	if next > itMax {
		next = itMax
	}
	return []int{it, next}
}

// Fattened4D bundles the horizontal kernel's fattened indices with the
// (up to two) vertical and temporal levels a 4-D interpolation needs.
// The horizontal indices do not depend on which vertical/temporal level
// is being read, so they are computed once and reused across the small
// (<=2x2) z/t grid — the Go analogue of fatten_ind_4d's broadcast.
type Fattened4D struct {
	H  []Index
	Iz []int
	It []int
}

// Fatten4D is the composite fattener used by the interpolation façade:
// horizontal fattening around (face,iy,ix), plus vertical and temporal
// level expansion, per the given kernel kinds.
func Fatten4D(center Index, iz, it, itMax int, hkernel Kernel, topo Topology, vk VKernel, tk TKernel) Fattened4D {
	return Fattened4D{
		H:  FattenH(center, hkernel, topo),
		Iz: FattenV(iz, vk),
		It: FattenT(it, itMax, tk),
	}
}
