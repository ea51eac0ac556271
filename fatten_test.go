package oceaninterp

import "testing"

func TestFattenHInterior(t *testing.T) {
	topo := &PlainTopology{Ny: 10, Nx: 10}
	center := Index{Face: 0, Iy: 5, Ix: 5}
	k := DefaultKernel()
	got := FattenH(center, k, topo)
	if len(got) != len(k) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(k))
	}
	for i, o := range k {
		want := Index{Face: 0, Iy: 5 + o.Dy, Ix: 5 + o.Dx}
		if got[i] != want {
			t.Errorf("node %d: got %v, want %v", i, got[i], want)
		}
	}
}

func TestFattenHOffGridReResolvesThroughTopology(t *testing.T) {
	topo := &PlainTopology{Ny: 10, Nx: 10}
	center := Index{Face: 0, Iy: 9, Ix: 0}
	k := DefaultKernel()
	got := FattenH(center, k, topo)
	// the node directly above the top-left corner (up is +iy) leaves the grid; PlainTopology's
	// IndMoves should yield Face=-1 rather than a wrapped-around index.
	for i, o := range k {
		if o.Dx == 0 && o.Dy == 1 {
			if got[i].Face != -1 {
				t.Errorf("node above the top-left corner should be off-grid, got %v", got[i])
			}
		}
	}
}

func TestFattenVNearestReturnsSingleLevel(t *testing.T) {
	got := FattenV(3, VNearest)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("FattenV(3, VNearest) = %v, want [3]", got)
	}
}

func TestFattenVLinearReturnsSelfAndAbove(t *testing.T) {
	got := FattenV(5, VLinear)
	want := []int{5, 4}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FattenV(5, VLinear) = %v, want %v", got, want)
	}
}

func TestFattenVLinearClampsAtSurface(t *testing.T) {
	got := FattenV(0, VLinear)
	want := []int{0, 0}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FattenV(0, VLinear) = %v, want %v (clamped at surface)", got, want)
	}
}

func TestFattenTNearestReturnsSingleIndex(t *testing.T) {
	got := FattenT(2, 10, TNearest)
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("FattenT(2,10,TNearest) = %v, want [2]", got)
	}
}

func TestFattenTLinearClampsAtMax(t *testing.T) {
	got := FattenT(10, 10, TLinear)
	want := []int{10, 10}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FattenT(10,10,TLinear) = %v, want %v (clamped at itMax)", got, want)
	}
}

func TestFatten4DComposesAllThreeAxes(t *testing.T) {
	topo := &PlainTopology{Ny: 10, Nx: 10}
	center := Index{Face: 0, Iy: 5, Ix: 5}
	k := DefaultKernel()
	got := Fatten4D(center, 3, 2, 10, k, topo, VLinear, TLinear)
	if len(got.H) != len(k) {
		t.Errorf("len(H) = %d, want %d", len(got.H), len(k))
	}
	if len(got.Iz) != 2 || got.Iz[0] != 3 || got.Iz[1] != 2 {
		t.Errorf("Iz = %v, want [3 2]", got.Iz)
	}
	if len(got.It) != 2 || got.It[0] != 2 || got.It[1] != 3 {
		t.Errorf("It = %v, want [2 3]", got.It)
	}
}
