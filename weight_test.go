package oceaninterp

import (
	"math"
	"testing"
)

func sumWeights(w []float64) float64 {
	s := 0.0
	for _, v := range w {
		s += v
	}
	return s
}

func TestKernelWeightPartitionOfUnity(t *testing.T) {
	k := DefaultKernel()
	f, err := kernelWeight(k, KindInterp, 0)
	if err != nil {
		t.Fatalf("kernelWeight: %v", err)
	}
	points := [][2]float64{{0, 0}, {0.25, -0.1}, {-0.4, 0.4}, {0.49, 0.49}}
	for _, p := range points {
		w := f(p[0], p[1])
		sum := sumWeights(w)
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("weights at (%v,%v) sum to %v, want 1", p[0], p[1], sum)
		}
	}
}

func TestKernelWeightReproducesLinearField(t *testing.T) {
	k := DefaultKernel()
	f, err := kernelWeight(k, KindInterp, 0)
	if err != nil {
		t.Fatalf("kernelWeight: %v", err)
	}
	// f(x,y) = x: the interpolated value at any (rx,ry) should equal rx,
	// since the stencil is exact for degree-1 polynomials.
	for _, rx := range []float64{-0.5, -0.2, 0, 0.3, 0.5} {
		w := f(rx, 0.1)
		got := 0.0
		for i, node := range k {
			got += float64(node.Dx) * w[i]
		}
		if math.Abs(got-rx) > 1e-9 {
			t.Errorf("interpolated f(x,y)=x at rx=%v got %v", rx, got)
		}
	}
}

func TestKernelWeightHomeNodeAtOrigin(t *testing.T) {
	k := DefaultKernel()
	f, err := kernelWeight(k, KindInterp, 0)
	if err != nil {
		t.Fatalf("kernelWeight: %v", err)
	}
	w := f(0, 0)
	for i, node := range k {
		want := 0.0
		if node.Dx == 0 && node.Dy == 0 {
			want = 1
		}
		if math.Abs(w[i]-want) > 1e-9 {
			t.Errorf("weight at origin for node %v = %v, want %v", node, w[i], want)
		}
	}
}

func TestKernelWeightSingleNodeIsConstantOne(t *testing.T) {
	k := wKernel()
	f, err := kernelWeight(k, KindInterp, 0)
	if err != nil {
		t.Fatalf("kernelWeight: %v", err)
	}
	for _, p := range [][2]float64{{0, 0}, {0.3, -0.2}} {
		w := f(p[0], p[1])
		if len(w) != 1 || math.Abs(w[0]-1) > 1e-12 {
			t.Errorf("single-node kernel weight at %v = %v, want [1]", p, w)
		}
	}
}

func TestKernelWeightTooSmallForOrder(t *testing.T) {
	k := wKernel()
	_, err := kernelWeight(k, KindDx, 2)
	if err == nil {
		t.Fatalf("expected an error requesting a 2nd x-derivative from a single-node kernel")
	}
}

func TestCombinationsSelectOne(t *testing.T) {
	got := combinations([]float64{1, 2, 3}, 1)
	if len(got) != 3 {
		t.Fatalf("combinations(..,1) length = %d, want 3", len(got))
	}
}

func TestCombinationsSelectAll(t *testing.T) {
	lst := []float64{1, 2, 3}
	got := combinations(lst, len(lst))
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("combinations choosing every element should return one full-length subset, got %v", got)
	}
}
