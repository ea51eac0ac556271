package oceaninterp

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// partitionOfUnityTol is the tolerance used when debug-checking that a
// cascade's weights sum to 1 (spec §8's invariant).
const partitionOfUnityTol = 1e-8

// checkPartitionOfUnity logs (at DebugVeryHigh) when a weight vector that
// should represent a partition of unity does not sum to 1 within
// tolerance; it never returns an error; a bad cascade is a programming
// bug in this package, not a caller-facing condition, and a NaN vector
// (the all-dry convention) is expected to fail the check so it is skipped.
func checkPartitionOfUnity(label string, w []float64) {
	if debugLevel != DebugVeryHigh || containsNaN(w) {
		return
	}
	if sum := floats.Sum(w); math.Abs(sum-1) > partitionOfUnityTol {
		log.Warnf("oceaninterp: %s weights sum to %v, want 1", label, sum)
	}
}

// KernelFuncCache memoizes compiled WeightFuncs by (sub-kernel, kind,
// order), so the same doll/derivative combination is only compiled once
// per Position (or Particle), matching the spirit of the reference's
// @njit-compiled, module-level default_interp_funcs cache.
type KernelFuncCache struct {
	mu    sync.Mutex
	funcs map[string]WeightFunc
}

// NewKernelFuncCache returns an empty cache.
func NewKernelFuncCache() *KernelFuncCache {
	return &KernelFuncCache{funcs: make(map[string]WeightFunc)}
}

func kernelSignature(k Kernel, kind WeightKind, order int) string {
	s := fmt.Sprintf("%d:%d|", kind, order)
	for _, o := range k {
		s += fmt.Sprintf("%d,%d;", o.Dx, o.Dy)
	}
	return s
}

func (c *KernelFuncCache) get(k Kernel, kind WeightKind, order int) (WeightFunc, error) {
	key := kernelSignature(k, kind, order)
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.funcs[key]; ok {
		return f, nil
	}
	f, err := kernelWeight(k, kind, order)
	if err != nil {
		return nil, err
	}
	c.funcs[key] = f
	return f, nil
}

func containsNaN(ws []float64) bool {
	for _, w := range ws {
		if math.IsNaN(w) {
			return true
		}
	}
	return false
}

// GetWeightCascade picks, via SelectDoll, the largest fully-wet
// sub-stencil for a query point and evaluates its compiled weight
// function, scattering the result back into a full-kernel-sized weight
// vector (zero everywhere the winning doll doesn't reach). If no doll
// fits (even the nearest neighbor is dry) the result is all-NaN,
// matching get_weight_cascade's unmatched-point convention.
func GetWeightCascade(rx, ry float64, wet []bool, kernelLarge Kernel, russianDoll []Doll, kind WeightKind, order int, cache *KernelFuncCache) ([]float64, error) {
	out := make([]float64, len(kernelLarge))
	di := SelectDoll(wet, russianDoll)
	if di < 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out, nil
	}
	doll := russianDoll[di]
	sub := kernelLarge.Sub(doll)
	f, err := cache.get(sub, kind, order)
	if err != nil {
		return nil, err
	}
	subWeights := f(rx, ry)
	for i, nodeIdx := range doll {
		out[nodeIdx] = subWeights[i]
	}
	if kind == KindInterp && order == 0 {
		checkPartitionOfUnity("horizontal cascade", out)
	}
	return out, nil
}

func verticalWeights(vk VKernel, rz float64, n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	switch vk {
	case VDz:
		return []float64{-1, 1}
	default:
		return []float64{1 - rz, rz}
	}
}

func temporalWeights(tk TKernel, rt float64, n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	switch tk {
	case TDt:
		return []float64{-1, 1}
	default:
		return []float64{1 - rt, rt}
	}
}

// GetWeight4D composes the horizontal cascade weight with the vertical
// and temporal interpolation weights across the (<=2)x(<=2) z/t grid a
// Fattened4D carries, applying the no-flux bottom correction when no doll
// fits at the deeper of the two vertical levels (with the default dolls:
// its home node is dry), so its cascade is all-NaN: its own weight is
// zeroed, the shallower level takes over entirely (zweight 1), and — if
// rz puts the query point past the midpoint toward the dry level — the
// shallower level's horizontal weight is zeroed too rather than
// extrapolated past it (get_weight_4d's no_flux branch in
// kernel_and_weight.py). The result is indexed [jz][jt], each a
// full-kernel-length weight vector.
func GetWeight4D(rx, ry, rz, rt float64, f Fattened4D, kernelLarge Kernel, russianDoll []Doll, vk VKernel, tk TKernel, bottom BottomScheme, wetAt func(jz int) []bool, cache *KernelFuncCache) ([][][]float64, error) {
	if vk < VNearest || vk > VDz || tk < TNearest || tk > TDt {
		return nil, fmt.Errorf("%w: vkernel %d, tkernel %d", ErrUnsupportedKernel, vk, tk)
	}
	nz := len(f.Iz)
	nt := len(f.It)
	zw := verticalWeights(vk, rz, nz)
	tw := temporalWeights(tk, rt, nt)

	hw := make([][]float64, nz)
	for jz := 0; jz < nz; jz++ {
		w, err := GetWeightCascade(rx, ry, wetAt(jz), kernelLarge, russianDoll, KindInterp, 0, cache)
		if err != nil {
			return nil, err
		}
		hw[jz] = w
	}

	if vk == VLinear && bottom == BottomNoFlux && nz == 2 && containsNaN(hw[0]) {
		for i := range hw[0] {
			hw[0][i] = 0
		}
		if rz < 0.5 {
			for i := range hw[1] {
				hw[1][i] = 0
			}
		}
		zw[1] = 1
	}

	out := make([][][]float64, nz)
	for jz := 0; jz < nz; jz++ {
		out[jz] = make([][]float64, nt)
		for jt := 0; jt < nt; jt++ {
			row := make([]float64, len(kernelLarge))
			for i, w := range hw[jz] {
				row[i] = w * zw[jz] * tw[jt]
			}
			out[jz][jt] = row
		}
	}
	return out, nil
}
