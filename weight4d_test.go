package oceaninterp

import (
	"math"
	"testing"
)

func allWet(n int) []bool {
	w := make([]bool, n)
	for i := range w {
		w[i] = true
	}
	return w
}

func TestGetWeightCascadeFullyWetSumsToOne(t *testing.T) {
	k := DefaultKernel()
	cache := NewKernelFuncCache()
	w, err := GetWeightCascade(0.1, -0.2, allWet(len(k)), k, DefaultRussianDoll(), KindInterp, 0, cache)
	if err != nil {
		t.Fatalf("GetWeightCascade: %v", err)
	}
	if len(w) != len(k) {
		t.Fatalf("len(w) = %d, want %d", len(w), len(k))
	}
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

func TestGetWeightCascadeFallsBackToNearestWhenOnlyHomeIsWet(t *testing.T) {
	k := DefaultKernel()
	cache := NewKernelFuncCache()
	wet := make([]bool, len(k)) // all dry except the home node
	wet[0] = true
	w, err := GetWeightCascade(0.3, 0.1, wet, k, DefaultRussianDoll(), KindInterp, 0, cache)
	if err != nil {
		t.Fatalf("GetWeightCascade: %v", err)
	}
	if w[0] != 1 {
		t.Errorf("w[0] = %v, want 1 (nearest-neighbor doll is constant 1)", w[0])
	}
	for i := 1; i < len(w); i++ {
		if w[i] != 0 {
			t.Errorf("w[%d] = %v, want 0", i, w[i])
		}
	}
}

func TestGetWeightCascadeAllDryReturnsNaN(t *testing.T) {
	k := DefaultKernel()
	cache := NewKernelFuncCache()
	wet := make([]bool, len(k))
	w, err := GetWeightCascade(0, 0, wet, k, DefaultRussianDoll(), KindInterp, 0, cache)
	if err != nil {
		t.Fatalf("GetWeightCascade: %v", err)
	}
	for i, v := range w {
		if !math.IsNaN(v) {
			t.Errorf("w[%d] = %v, want NaN when no doll fits", i, v)
		}
	}
}

func TestVerticalWeightsSingleLevelIsConstantOne(t *testing.T) {
	w := verticalWeights(VLinear, 0.7, 1)
	if len(w) != 1 || w[0] != 1 {
		t.Errorf("verticalWeights(..,1) = %v, want [1]", w)
	}
}

func TestVerticalWeightsLinearSplitsByRz(t *testing.T) {
	w := verticalWeights(VLinear, 0.25, 2)
	if math.Abs(w[0]-0.75) > 1e-9 || math.Abs(w[1]-0.25) > 1e-9 {
		t.Errorf("verticalWeights(VLinear,0.25,2) = %v, want [0.75 0.25]", w)
	}
}

func TestVerticalWeightsDzIsFiniteDifference(t *testing.T) {
	w := verticalWeights(VDz, 0.25, 2)
	if w[0] != -1 || w[1] != 1 {
		t.Errorf("verticalWeights(VDz,..) = %v, want [-1 1]", w)
	}
}

func TestGetWeight4DFullyWetComposesAcrossZAndT(t *testing.T) {
	topo := &PlainTopology{Ny: 20, Nx: 20}
	k := DefaultKernel()
	center := Index{Face: 0, Iy: 10, Ix: 10}
	fat := Fatten4D(center, 3, 1, 5, k, topo, VLinear, TLinear)
	cache := NewKernelFuncCache()
	wetAt := func(jz int) []bool { return allWet(len(k)) }

	w, err := GetWeight4D(0.1, -0.1, 0.4, 0.6, fat, k, DefaultRussianDoll(), VLinear, TLinear, BottomNoFlux, wetAt, cache)
	if err != nil {
		t.Fatalf("GetWeight4D: %v", err)
	}
	sum := 0.0
	for _, row := range w {
		for _, cell := range row {
			for _, v := range cell {
				sum += v
			}
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("total weight across z/t/h = %v, want 1", sum)
	}
}

func TestGetWeight4DNoFluxBottomRedistributesToShallowerLevel(t *testing.T) {
	topo := &PlainTopology{Ny: 20, Nx: 20}
	k := DefaultKernel()
	center := Index{Face: 0, Iy: 10, Ix: 10}
	fat := Fatten4D(center, 3, 1, 5, k, topo, VLinear, TLinear)
	cache := NewKernelFuncCache()
	// the deeper level (jz=0, fat.Iz[0]) is entirely dry; the shallower
	// level (jz=1, fat.Iz[1], the "upper" neighbor) is fully wet.
	wetAt := func(jz int) []bool {
		if jz == 0 {
			return make([]bool, len(k))
		}
		return allWet(len(k))
	}

	w, err := GetWeight4D(0, 0, 0.9, 0, fat, k, DefaultRussianDoll(), VLinear, TLinear, BottomNoFlux, wetAt, cache)
	if err != nil {
		t.Fatalf("GetWeight4D: %v", err)
	}
	sum := 0.0
	for _, row := range w {
		for _, cell := range row {
			for _, v := range cell {
				sum += v
			}
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("total weight should still sum to 1 after the no-flux correction, got %v", sum)
	}
	for _, v := range w[0][0] {
		if v != 0 {
			t.Errorf("the dry deeper level should carry zero weight, got %v in row %v", v, w[0][0])
		}
	}
}
