package oceaninterp

import "fmt"

// WeightKind selects which closed-form Lagrange interpolant a kernel
// weight function evaluates: plain interpolation, or the first spatial
// derivative along x or y (spec §4.6).
type WeightKind int

const (
	KindInterp WeightKind = iota
	KindDx
	KindDy
)

// WeightFunc evaluates the per-node weights of a single compiled kernel
// function at one query point's local coordinate (rx,ry). The returned
// slice has the same length as the kernel it was built from.
type WeightFunc func(rx, ry float64) []float64

// combinations returns every subset of size `select` drawn from lst,
// preserving the recursive construction of the Python get_combination
// helper. For selectN <= 0 it returns no subsets at all (nil), not the
// single empty subset.
func combinations(lst []float64, selectN int) [][]float64 {
	if selectN <= 0 {
		return nil
	}
	if selectN == 1 {
		out := make([][]float64, len(lst))
		for i, v := range lst {
			out[i] = []float64{v}
		}
		return out
	}
	var out [][]float64
	for i, v := range lst {
		for _, sub := range combinations(lst[i+1:], selectN-1) {
			out = append(out, append(append([]float64{}, sub...), v))
		}
	}
	return out
}

func sumOfProducts(terms [][]float64, r float64) float64 {
	sum := 0.0
	for _, term := range terms {
		p := 1.0
		for _, v := range term {
			p *= r - v
		}
		sum += p
	}
	return sum
}

func denom(values []float64, exclude float64) float64 {
	d := 1.0
	for _, v := range values {
		if v != exclude {
			d *= exclude - v
		}
	}
	return d
}

func without(values []float64, exclude float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v != exclude {
			out = append(out, v)
		}
	}
	return out
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}

// kernelWeightX builds the weight function for a cross-shaped stencil
// (every node on the x axis or y axis of the home cell), implementing
// the Lagrange decomposition f(rx,ry) = fx(rx) + fy(ry) - f(0,0) of spec
// §4.6. kind/order select plain interpolation or a derivative along one
// axis; a degenerate single-axis kernel (all x's equal, or all y's
// equal) forces the corresponding axis-only kind, exactly as the
// reference implementation does.
func kernelWeightX(k Kernel, kind WeightKind, order int) (WeightFunc, error) {
	xs := nodeXs(k)
	ys := nodeYs(k)

	effective := kind
	if len(xs) == 1 {
		effective = KindDy
	} else if len(ys) == 1 {
		effective = KindDx
	}

	switch effective {
	case KindInterp:
		xPoly := make([][][]float64, len(xs))
		for i, ax := range xs {
			xPoly[i] = combinations(without(xs, ax), len(xs)-1)
		}
		yPoly := make([][][]float64, len(ys))
		for i, ay := range ys {
			yPoly[i] = combinations(without(ys, ay), len(ys)-1)
		}
		return func(rx, ry float64) []float64 {
			w := make([]float64, len(k))
			for i, node := range k {
				x, y := float64(node.Dx), float64(node.Dy)
				switch {
				case x != 0:
					ix := indexOf(xs, x)
					w[i] += sumOfProducts(xPoly[ix], rx)
					w[i] /= denom(xs, x)
				case y != 0:
					iy := indexOf(ys, y)
					w[i] += sumOfProducts(yPoly[iy], ry)
					w[i] /= denom(ys, y)
				default:
					ix := indexOf(xs, 0)
					iy := indexOf(ys, 0)
					xthing := sumOfProducts(xPoly[ix], rx) / denom(xs, 0)
					ything := sumOfProducts(yPoly[iy], ry) / denom(ys, 0)
					w[i] = xthing + ything - 1
				}
			}
			return w
		}, nil

	case KindDx:
		maxOrder := len(xs) - 1
		if order > maxOrder {
			return nil, fmt.Errorf("%w: x-derivative order %d, stencil supports at most %d", ErrKernelTooSmall, order, maxOrder)
		}
		if order == maxOrder {
			common := factorialFrom(order)
			return func(rx, ry float64) []float64 {
				w := make([]float64, len(k))
				for i, node := range k {
					x, y := float64(node.Dx), float64(node.Dy)
					if y != 0 {
						w[i] = 0
						continue
					}
					w[i] = common / denom(xs, x)
				}
				return w
			}, nil
		}
		xPoly := make([][][]float64, len(xs))
		for i, ax := range xs {
			xPoly[i] = combinations(without(xs, ax), len(xs)-1-order)
		}
		return func(rx, ry float64) []float64 {
			w := make([]float64, len(k))
			for i, node := range k {
				x, y := float64(node.Dx), float64(node.Dy)
				if y != 0 {
					continue
				}
				ix := indexOf(xs, x)
				w[i] += sumOfProducts(xPoly[ix], rx)
				w[i] /= denom(xs, x)
			}
			return w
		}, nil

	case KindDy:
		maxOrder := len(ys) - 1
		if order > maxOrder {
			return nil, fmt.Errorf("%w: y-derivative order %d, stencil supports at most %d", ErrKernelTooSmall, order, maxOrder)
		}
		if order == maxOrder {
			common := factorialFrom(order)
			return func(rx, ry float64) []float64 {
				w := make([]float64, len(k))
				for i, node := range k {
					x, y := float64(node.Dx), float64(node.Dy)
					if x != 0 {
						w[i] = 0
						continue
					}
					w[i] = common / denom(ys, y)
				}
				return w
			}, nil
		}
		yPoly := make([][][]float64, len(ys))
		for i, ay := range ys {
			yPoly[i] = combinations(without(ys, ay), len(ys)-1-order)
		}
		return func(rx, ry float64) []float64 {
			w := make([]float64, len(k))
			for i, node := range k {
				x, y := float64(node.Dx), float64(node.Dy)
				if x != 0 {
					continue
				}
				iy := indexOf(ys, y)
				w[i] += sumOfProducts(yPoly[iy], ry)
				w[i] /= denom(ys, y)
			}
			return w
		}, nil
	}
	return nil, fmt.Errorf("%w: unreachable weight kind", ErrUnsupportedKernel)
}

// factorialFrom computes (order-1)! for order>=1, and 1 for order==0 (the
// degenerate "zeroth derivative at max order" case used by a
// single-node kernel), matching the reference's range(1,order) loop.
func factorialFrom(order int) float64 {
	if order <= 1 {
		return 1
	}
	return factorial(order - 1)
}

func indexOf(values []float64, v float64) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// kernelWeightS builds the weight function for a rectangular (tensor
// product) stencil: the per-axis Lagrange weights multiplied together,
// with partial derivatives reducing the corresponding axis's order
// (spec §4.6).
func kernelWeightS(k Kernel, xorder, yorder int) (WeightFunc, error) {
	xs := nodeXs(k)
	ys := nodeYs(k)
	if xorder > len(xs)-1 {
		return nil, fmt.Errorf("%w: x-derivative order %d, stencil supports at most %d", ErrKernelTooSmall, xorder, len(xs)-1)
	}
	if yorder > len(ys)-1 {
		return nil, fmt.Errorf("%w: y-derivative order %d, stencil supports at most %d", ErrKernelTooSmall, yorder, len(ys)-1)
	}
	xMax := xorder == len(xs)-1
	yMax := yorder == len(ys)-1

	xPoly := make([][][]float64, len(xs))
	for i, ax := range xs {
		xPoly[i] = combinations(without(xs, ax), len(xs)-1-xorder)
	}
	yPoly := make([][][]float64, len(ys))
	for i, ay := range ys {
		yPoly[i] = combinations(without(ys, ay), len(ys)-1-yorder)
	}

	return func(rx, ry float64) []float64 {
		xWeight := make([]float64, len(xs))
		yWeight := make([]float64, len(ys))
		for i, x := range xs {
			if xMax {
				xWeight[i] = factorialFrom(xorder)
			} else {
				xWeight[i] = sumOfProducts(xPoly[i], rx)
			}
			xWeight[i] /= denom(xs, x)
		}
		for i, y := range ys {
			if yMax {
				yWeight[i] = factorialFrom(yorder)
			} else {
				yWeight[i] = sumOfProducts(yPoly[i], ry)
			}
			yWeight[i] /= denom(ys, y)
		}
		w := make([]float64, len(k))
		for i, node := range k {
			w[i] = xWeight[indexOf(xs, float64(node.Dx))] * yWeight[indexOf(ys, float64(node.Dy))]
		}
		return w
	}, nil
}

// kernelWeight dispatches to the cross-shaped or rectangular weight
// builder depending on the kernel's shape (spec §4.6).
func kernelWeight(k Kernel, kind WeightKind, order int) (WeightFunc, error) {
	xs := nodeXs(k)
	ys := nodeYs(k)
	if isCrossShaped(k) {
		return kernelWeightX(k, kind, order)
	}
	if len(k) == len(xs)*len(ys) {
		switch kind {
		case KindInterp:
			return kernelWeightS(k, 0, 0)
		case KindDx:
			return kernelWeightS(k, order, 0)
		case KindDy:
			return kernelWeightS(k, 0, order)
		}
	}
	return nil, fmt.Errorf("%w: kernel shape is neither cross nor rectangular", ErrUnsupportedKernel)
}
