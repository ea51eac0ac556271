package oceaninterp

// Offset is a single (dx,dy) horizontal stencil node, in integer cell
// units relative to the home cell.
type Offset struct {
	Dx, Dy int
}

// Kernel is an ordered list of horizontal stencil offsets. The zeroth
// entry is always (0,0), the home cell (spec §3).
type Kernel []Offset

// Doll is a sub-stencil of a Kernel: an ordered list of indices into the
// kernel it was built from. A kernel set (the RussianDoll in Config) is
// a sequence of dolls, each a strict subset of the previous, terminating
// in [0] (nearest neighbor only).
type Doll []int

// Sub returns the stencil nodes k[d[i]] for each index in d.
func (k Kernel) Sub(d Doll) Kernel {
	out := make(Kernel, len(d))
	for i, idx := range d {
		out[i] = k[idx]
	}
	return out
}

// DefaultKernel is the standard cross-shaped 9-point stencil: the home
// cell plus two neighbors in each direction along each axis.
func DefaultKernel() Kernel {
	return Kernel{
		{0, 0},
		{0, 1}, {0, 2}, {0, -1}, {0, -2},
		{-1, 0}, {-2, 0}, {1, 0}, {2, 0},
	}
}

// DefaultRussianDoll is the standard cascade of sub-stencils used with
// DefaultKernel: 9 points, then 7, then 5, then the nearest neighbor.
func DefaultRussianDoll() []Doll {
	return []Doll{
		{0, 1, 2, 3, 4, 5, 6, 7, 8},
		{0, 1, 2, 3, 5, 7, 8},
		{0, 1, 3, 5, 7},
		{0},
	}
}

// uKernel, vKernel and wKernel are the minimal stencils the particle
// stepper uses for the velocity components and their spatial derivatives.
// uKernel and vKernel are the same 3-point stencil (home, right neighbor,
// upper neighbor); uDoll picks the home cell plus the right neighbor and
// vDoll the home cell plus the upper neighbor. wKernel is the home cell
// only. This mirrors the Python particle stepper's ukernel/vkernel/wkernel.
func uKernel() Kernel { return Kernel{{0, 0}, {1, 0}, {0, 1}} }
func vKernel() Kernel { return Kernel{{0, 0}, {1, 0}, {0, 1}} }
func wKernel() Kernel { return Kernel{{0, 0}} }

func uDoll() []Doll { return []Doll{{0, 1}} }
func vDoll() []Doll { return []Doll{{0, 2}} }
func wDoll() []Doll { return []Doll{{0}} }

// translateOffset converts an Offset into the ordered move list that
// walks the home cell to it (vertical moves first, then horizontal).
func translateOffset(o Offset) []Move {
	return translateToTendency(o.Dx, o.Dy)
}

// nodeXs returns the distinct x-coordinates present in the kernel (used to
// build the Lagrange polynomial basis for cross-shaped stencils).
func nodeXs(k Kernel) []float64 {
	seen := map[int]bool{}
	var xs []float64
	for _, o := range k {
		if !seen[o.Dx] {
			seen[o.Dx] = true
			xs = append(xs, float64(o.Dx))
		}
	}
	return xs
}

// nodeYs returns the distinct y-coordinates present in the kernel.
func nodeYs(k Kernel) []float64 {
	seen := map[int]bool{}
	var ys []float64
	for _, o := range k {
		if !seen[o.Dy] {
			seen[o.Dy] = true
			ys = append(ys, float64(o.Dy))
		}
	}
	return ys
}

// isCrossShaped reports whether the kernel has the node count of a "plus"
// shape, len(xs)+len(ys)-1, as opposed to a full rectangular
// tensor-product stencil. For a kernel of distinct nodes that contains
// the home cell this holds when every node lies on the x axis or the y
// axis; node positions are not checked one by one.
func isCrossShaped(k Kernel) bool {
	xs := nodeXs(k)
	ys := nodeYs(k)
	return len(k) == len(xs)+len(ys)-1
}
