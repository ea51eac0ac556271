package oceaninterp

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

// newTestGrid builds a 1-face, 3x3 plain grid with cell centers on integer
// lon/lat 0..2 (1-degree spacing, cell widths in meters), for exercising
// FindRelH/FindRelV/FindRelT without needing real ocean coordinates.
func newTestGrid() *Grid {
	xc := sparse.ZerosDense(1, 3, 3)
	yc := sparse.ZerosDense(1, 3, 3)
	dxc := sparse.ZerosDense(1, 3, 3)
	dyc := sparse.ZerosDense(1, 3, 3)
	cs := sparse.ZerosDense(1, 3, 3)
	sn := sparse.ZerosDense(1, 3, 3)
	mask := sparse.ZerosDense(1, 2, 3, 3)
	for iy := 0; iy < 3; iy++ {
		for ix := 0; ix < 3; ix++ {
			xc.Set(float64(ix), 0, iy, ix)
			yc.Set(float64(iy), 0, iy, ix)
			dxc.Set(deg2m*math.Cos(float64(iy)*math.Pi/180), 0, iy, ix)
			dyc.Set(deg2m, 0, iy, ix)
			cs.Set(1, 0, iy, ix)
			sn.Set(0, 0, iy, ix)
			mask.Set(1, 0, 0, iy, ix)
			mask.Set(1, 0, 1, iy, ix)
		}
	}
	z := []float64{0, -10}
	zl := []float64{0, -5, -15}
	dzl := []float64{1e-10, 5, 10}
	tAxis := []float64{0, 1, 2}
	topo := &PlainTopology{Ny: 3, Nx: 3}
	return NewGrid(topo, xc, yc, xc, yc, dxc, dyc, cs, sn, mask, z, zl, dzl, tAxis)
}

func TestFindRelHLocatesExactCenter(t *testing.T) {
	g := newTestGrid()
	idx, rx, ry, _, _, err := g.FindRelH(1, 1)
	if err != nil {
		t.Fatalf("FindRelH: %v", err)
	}
	want := Index{Face: 0, Iy: 1, Ix: 1}
	if idx != want {
		t.Errorf("idx = %v, want %v", idx, want)
	}
	if math.Abs(rx) > 1e-9 || math.Abs(ry) > 1e-9 {
		t.Errorf("rx,ry = %v,%v, want 0,0 at exact center", rx, ry)
	}
}

func TestFindRelHFractionalOffset(t *testing.T) {
	g := newTestGrid()
	idx, rx, ry, _, _, err := g.FindRelH(1.25, 1.0)
	if err != nil {
		t.Fatalf("FindRelH: %v", err)
	}
	if idx != (Index{Face: 0, Iy: 1, Ix: 1}) {
		t.Errorf("idx = %v, want (0,1,1)", idx)
	}
	if math.Abs(rx-0.25) > 1e-9 {
		t.Errorf("rx = %v, want 0.25", rx)
	}
	if math.Abs(ry) > 1e-9 {
		t.Errorf("ry = %v, want 0", ry)
	}
}

func TestLocate1DBracketsInterior(t *testing.T) {
	axis := []float64{0, 1, 2, 3}
	lo, frac, err := locate1D(axis, 1.5)
	if err != nil {
		t.Fatalf("locate1D: %v", err)
	}
	if lo != 1 {
		t.Errorf("lo = %d, want 1", lo)
	}
	if math.Abs(frac-0.5) > 1e-9 {
		t.Errorf("frac = %v, want 0.5", frac)
	}
}

func TestLocate1DClampsBelowAndAbove(t *testing.T) {
	axis := []float64{0, 1, 2, 3}
	lo, frac, err := locate1D(axis, -5)
	if err != nil || lo != 0 || frac != 0 {
		t.Errorf("below-range: got (%d,%v,%v), want (0,0,nil)", lo, frac, err)
	}
	lo, frac, err = locate1D(axis, 50)
	if err != nil || lo != len(axis)-2 || frac != 1 {
		t.Errorf("above-range: got (%d,%v,%v), want (%d,1,nil)", lo, frac, err, len(axis)-2)
	}
}

func TestLocate1DSingleElementAxis(t *testing.T) {
	lo, frac, err := locate1D([]float64{7}, 3)
	if err != nil || lo != 0 || frac != 0 {
		t.Errorf("single-element axis: got (%d,%v,%v), want (0,0,nil)", lo, frac, err)
	}
}

func TestFindRelVAndFindRelVLinUseDistinctAxes(t *testing.T) {
	g := newTestGrid()
	iz, _, err := g.FindRelV(-10)
	if err != nil {
		t.Fatalf("FindRelV: %v", err)
	}
	if iz != 1 {
		t.Errorf("FindRelV(-10) lo = %d, want 1 (the deeper of the two Z entries)", iz)
	}
	izl, _, err := g.FindRelVLin(-5)
	if err != nil {
		t.Fatalf("FindRelVLin: %v", err)
	}
	if izl != 1 {
		t.Errorf("FindRelVLin(-5) lo = %d, want 1", izl)
	}
}

func TestAddFieldAndField(t *testing.T) {
	g := newTestGrid()
	data := sparse.ZerosDense(1, 2, 3, 3)
	g.AddField("temp", Scalar3D, data)
	f, err := g.Field("temp")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if f.Kind != Scalar3D || f.Data != data {
		t.Errorf("Field returned %+v", f)
	}
}

func TestFieldUnknownNameErrors(t *testing.T) {
	g := newTestGrid()
	if _, err := g.Field("nope"); err == nil {
		t.Errorf("expected an error looking up an unregistered field")
	}
}

func TestSpacingReadsDXCDYCAndDZl(t *testing.T) {
	g := newTestGrid()
	dx, dy, dzl := g.Spacing(Index{Face: 0, Iy: 1, Ix: 1}, 1)
	if dx != deg2m*math.Cos(math.Pi/180) || dy != deg2m {
		t.Errorf("dx,dy = %v,%v, want %v,%v", dx, dy, deg2m*math.Cos(math.Pi/180), deg2m)
	}
	if dzl != 5 {
		t.Errorf("dzl = %v, want 5", dzl)
	}
}

func TestSpacingOutOfRangeIzlFallsBackToEpsilon(t *testing.T) {
	g := newTestGrid()
	_, _, dzl := g.Spacing(Index{Face: 0, Iy: 0, Ix: 0}, 99)
	if dzl != 1e-10 {
		t.Errorf("dzl = %v, want the 1e-10 fallback", dzl)
	}
}
