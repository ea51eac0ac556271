package oceaninterp

import "testing"

func TestPlainTopologyIndMovesIdentity(t *testing.T) {
	topo := &PlainTopology{Ny: 10, Nx: 10}
	start := Index{Face: 0, Iy: 5, Ix: 5}
	got := topo.IndMoves(start, nil)
	if got != start {
		t.Errorf("IndMoves with no moves = %v, want %v", got, start)
	}
}

func TestPlainTopologyIndMovesAssociative(t *testing.T) {
	topo := &PlainTopology{Ny: 20, Nx: 20}
	start := Index{Face: 0, Iy: 10, Ix: 10}
	moves := []Move{MoveUp, MoveUp, MoveRight, MoveDown, MoveLeft, MoveLeft}

	whole := topo.IndMoves(start, moves)

	mid := topo.IndMoves(start, moves[:3])
	rest := topo.IndMoves(mid, moves[3:])

	if whole != rest {
		t.Errorf("splitting the move list changed the result: whole=%v split=%v", whole, rest)
	}
}

func TestPlainTopologyLeavesGrid(t *testing.T) {
	topo := &PlainTopology{Ny: 5, Nx: 5}
	start := Index{Face: 0, Iy: 0, Ix: 0}
	got := topo.IndMoves(start, []Move{MoveDown})
	if got.Face != -1 {
		t.Errorf("moving off the grid should yield Face=-1, got %v", got)
	}
}

func TestPlainTopologyCheckIllegal(t *testing.T) {
	topo := &PlainTopology{Ny: 4, Nx: 4}
	idx := []Index{
		{Face: 0, Iy: 0, Ix: 0},
		{Face: 0, Iy: 3, Ix: 3},
		{Face: 0, Iy: 4, Ix: 0},
		{Face: 0, Iy: -1, Ix: 0},
	}
	want := []bool{false, false, true, true}
	got := topo.CheckIllegal(idx)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CheckIllegal[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTranslateToTendency(t *testing.T) {
	cases := []struct {
		dx, dy int
		want   []Move
	}{
		{0, 0, nil},
		{0, 2, []Move{MoveUp, MoveUp}},
		{0, -2, []Move{MoveDown, MoveDown}},
		{2, 0, []Move{MoveRight, MoveRight}},
		{-2, 0, []Move{MoveLeft, MoveLeft}},
		{1, 1, []Move{MoveUp, MoveRight}},
		{-1, -1, []Move{MoveDown, MoveLeft}},
	}
	for _, c := range cases {
		got := translateToTendency(c.dx, c.dy)
		if len(got) != len(c.want) {
			t.Fatalf("translateToTendency(%d,%d) = %v, want %v", c.dx, c.dy, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("translateToTendency(%d,%d)[%d] = %v, want %v", c.dx, c.dy, i, got[i], c.want[i])
			}
		}
	}
}

// a 6-face cube where every face borders its four neighbors with no
// relative rotation, for exercising the cross-face bookkeeping without
// needing to reason about rotated seams.
func unrotatedCube(n int) *CubedSphereTopology {
	neighbors := make([][4]FaceNeighbor, 6)
	ring := [4]int{1, 3, 5, 4} // up,down,left,right for face 0, used uniformly below for simplicity
	for f := 0; f < 6; f++ {
		for m := 0; m < 4; m++ {
			neighbors[f][m] = FaceNeighbor{Face: ring[m], Rotation: 0}
		}
	}
	return NewCubedSphereTopology(n, neighbors)
}

func TestCubedSphereFourMatrixIdentityOnSameFace(t *testing.T) {
	topo := unrotatedCube(8)
	r := topo.FourMatrixForUV(2, 2)
	u, v := r.Apply(3, 4)
	if u != 3 || v != 4 {
		t.Errorf("same-face rotation should be identity, got (%v,%v)", u, v)
	}
}

func TestCubedSphereFourMatrixUnrotatedNeighbor(t *testing.T) {
	topo := unrotatedCube(8)
	r := topo.FourMatrixForUV(0, 1)
	u, v := r.Apply(3, 4)
	if u != 3 || v != 4 {
		t.Errorf("zero-rotation neighbor should preserve (u,v), got (%v,%v)", u, v)
	}
}

func TestCubedSphereStepCrossesSeam(t *testing.T) {
	neighbors := make([][4]FaceNeighbor, 2)
	neighbors[0][MoveRight] = FaceNeighbor{Face: 1, Rotation: 0}
	neighbors[0][MoveUp] = FaceNeighbor{Face: -1}
	neighbors[0][MoveDown] = FaceNeighbor{Face: -1}
	neighbors[0][MoveLeft] = FaceNeighbor{Face: -1}
	neighbors[1][MoveLeft] = FaceNeighbor{Face: 0, Rotation: 0}
	neighbors[1][MoveUp] = FaceNeighbor{Face: -1}
	neighbors[1][MoveDown] = FaceNeighbor{Face: -1}
	neighbors[1][MoveRight] = FaceNeighbor{Face: -1}

	topo := NewCubedSphereTopology(4, neighbors)
	start := Index{Face: 0, Iy: 1, Ix: 3}
	got := topo.IndMoves(start, []Move{MoveRight})
	want := Index{Face: 1, Iy: 1, Ix: 0}
	if got != want {
		t.Errorf("crossing unrotated seam: got %v, want %v", got, want)
	}

	back := topo.IndMoves(got, []Move{MoveLeft})
	if back != start {
		t.Errorf("crossing a seam and back should return to start: got %v, want %v", back, start)
	}
}
