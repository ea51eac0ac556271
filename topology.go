package oceaninterp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Move is a unit tendency along one of the four C-grid directions. The
// encoding is fixed by the spec: 0=up (+j), 1=down (-j), 2=left (-i),
// 3=right (+i).
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// cycle90 maps a move to the move it becomes after a 90-degree rotation
// of the frame it is expressed in: up->right->down->left->up.
var cycle90 = [4]Move{MoveRight, MoveLeft, MoveUp, MoveDown}

func rotateMove(m Move, quarterTurns int) Move {
	for i := 0; i < ((quarterTurns % 4) + 4); i++ {
		m = cycle90[m]
	}
	return m
}

// Index identifies a single grid cell by face and (j,i) position. Face is
// 0 on a grid with a single logical face; Face -1 is the sentinel for any
// index that has walked off the grid entirely.
type Index struct {
	Face, Iy, Ix int
}

// UVRotation is the 2x2 matrix that rotates a (u,v) tuple sampled on one
// face into another face's local axes (spec §4.1, four_matrix_for_uv).
// Entries are always in {-1,0,1} because face-to-face rotations are
// always multiples of 90 degrees.
type UVRotation struct {
	UfromU, UfromV, VfromU, VfromV float64
}

// Apply rotates (u,v) from the source face's axes into the destination
// face's axes.
func (r UVRotation) Apply(u, v float64) (float64, float64) {
	return r.UfromU*u + r.UfromV*v, r.VfromU*u + r.VfromV*v
}

func rotationFromAngle(deg int) UVRotation {
	theta := float64(deg) * math.Pi / 180
	d := mat.NewDense(2, 2, []float64{
		math.Round(math.Cos(theta)), math.Round(-math.Sin(theta)),
		math.Round(math.Sin(theta)), math.Round(math.Cos(theta)),
	})
	return UVRotation{
		UfromU: d.At(0, 0), UfromV: d.At(0, 1),
		VfromU: d.At(1, 0), VfromV: d.At(1, 1),
	}
}

// Topology answers questions about face adjacency for a staggered
// curvilinear grid: whether an index is legal, where a sequence of
// tendency moves leads, and how to rotate a velocity pair across a face
// seam. check_illegal/ind_moves/ind_tend_vec/four_matrix_for_uv of spec
// §4.1.
type Topology interface {
	// NumFaces returns the number of logical faces (1 for a plain grid).
	NumFaces() int
	// Shape returns the (ny, nx) cell-count of the given face.
	Shape(face int) (ny, nx int)
	// CheckIllegal reports, for each index, whether its (j,i) falls
	// outside its face's shape.
	CheckIllegal(idx []Index) []bool
	// IndMoves applies a sequence of unit tendencies to start and returns
	// the final index, or Index{Face: -1} if the path leaves the grid.
	IndMoves(start Index, moves []Move) Index
	// IndTendVec is the vectorized one-step form of IndMoves.
	IndTendVec(starts []Index, tends []Move) []Index
	// FourMatrixForUV returns the rotation that maps a (u,v) pair sampled
	// on faceSrc into faceDst's local axes.
	FourMatrixForUV(faceSrc, faceDst int) UVRotation
}

// PlainTopology is a single-face grid with no seams: a classic lat-lon or
// Cartesian C-grid. Any index that walks off an edge is illegal and
// IndMoves returns the Face=-1 sentinel, matching the "leaves the grid
// entirely" failure mode of spec §4.1.
type PlainTopology struct {
	Ny, Nx int
}

func (t *PlainTopology) NumFaces() int { return 1 }

func (t *PlainTopology) Shape(face int) (int, int) { return t.Ny, t.Nx }

func (t *PlainTopology) CheckIllegal(idx []Index) []bool {
	out := make([]bool, len(idx))
	for i, ix := range idx {
		out[i] = ix.Iy < 0 || ix.Iy >= t.Ny || ix.Ix < 0 || ix.Ix >= t.Nx
	}
	return out
}

func (t *PlainTopology) step(cur Index, m Move) Index {
	iy, ix := cur.Iy, cur.Ix
	switch m {
	case MoveUp:
		iy++
	case MoveDown:
		iy--
	case MoveLeft:
		ix--
	case MoveRight:
		ix++
	}
	if iy < 0 || iy >= t.Ny || ix < 0 || ix >= t.Nx {
		return Index{Face: -1}
	}
	return Index{Face: 0, Iy: iy, Ix: ix}
}

func (t *PlainTopology) IndMoves(start Index, moves []Move) Index {
	cur := start
	for _, m := range moves {
		if cur.Face == -1 {
			return cur
		}
		cur = t.step(cur, m)
	}
	return cur
}

func (t *PlainTopology) IndTendVec(starts []Index, tends []Move) []Index {
	out := make([]Index, len(starts))
	for i, s := range starts {
		out[i] = t.step(s, tends[i])
	}
	return out
}

func (t *PlainTopology) FourMatrixForUV(faceSrc, faceDst int) UVRotation {
	return rotationFromAngle(0)
}

// FaceNeighbor describes the face reached by crossing one edge of another
// face, and the rotation (a multiple of 90 degrees) between the two
// faces' local axes.
type FaceNeighbor struct {
	Face     int
	Rotation int // degrees, one of 0, 90, 180, 270
}

// CubedSphereTopology is a multi-face grid where adjacent faces may be
// rotated relative to each other (spec §4.1). Faces are assumed square
// (Ny==Nx==N per face), which holds for the cubed-sphere grids this
// engine targets; a move that overflows a face's edge is mapped into the
// neighbor's frame by rotating the overflowed local coordinate by the
// edge's relative rotation and wrapping it onto the entering edge.
type CubedSphereTopology struct {
	N         int // cells per face edge
	Neighbors [][4]FaceNeighbor // indexed [face][Move], -1 Face means no neighbor

	relRotation [][]int // relRotation[a][b]: degrees to rotate a face-a vector into face-b's axes
}

// NewCubedSphereTopology builds a topology from a per-face neighbor table
// and precomputes pairwise face-to-face rotations by breadth-first
// traversal of the adjacency graph, so FourMatrixForUV works for any pair
// of faces reachable from one another, not just immediate neighbors.
func NewCubedSphereTopology(n int, neighbors [][4]FaceNeighbor) *CubedSphereTopology {
	t := &CubedSphereTopology{N: n, Neighbors: neighbors}
	nf := len(neighbors)
	rel := make([][]int, nf)
	for i := range rel {
		rel[i] = make([]int, nf)
		for j := range rel[i] {
			rel[i][j] = -1
		}
	}
	for start := 0; start < nf; start++ {
		rel[start][start] = 0
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range neighbors[cur] {
				if nb.Face < 0 {
					continue
				}
				cand := ((rel[start][cur] + nb.Rotation) % 360)
				if rel[start][nb.Face] == -1 {
					rel[start][nb.Face] = cand
					queue = append(queue, nb.Face)
				}
			}
		}
	}
	t.relRotation = rel
	return t
}

func (t *CubedSphereTopology) NumFaces() int { return len(t.Neighbors) }

func (t *CubedSphereTopology) Shape(face int) (int, int) { return t.N, t.N }

func (t *CubedSphereTopology) CheckIllegal(idx []Index) []bool {
	out := make([]bool, len(idx))
	for i, ix := range idx {
		if ix.Face < 0 || ix.Face >= len(t.Neighbors) {
			out[i] = true
			continue
		}
		out[i] = ix.Iy < 0 || ix.Iy >= t.N || ix.Ix < 0 || ix.Ix >= t.N
	}
	return out
}

func (t *CubedSphereTopology) step(cur Index, m Move) Index {
	n := t.N
	iy, ix := cur.Iy, cur.Ix
	switch m {
	case MoveUp:
		iy++
	case MoveDown:
		iy--
	case MoveLeft:
		ix--
	case MoveRight:
		ix++
	}
	if iy >= 0 && iy < n && ix >= 0 && ix < n {
		return Index{Face: cur.Face, Iy: iy, Ix: ix}
	}
	nb := t.Neighbors[cur.Face][m]
	if nb.Face < 0 {
		return Index{Face: -1}
	}
	quarterTurns := nb.Rotation / 90
	ry, rx := iy, ix
	for k := 0; k < quarterTurns; k++ {
		ry, rx = rx, n-1-ry
	}
	ry = ((ry % n) + n) % n
	rx = ((rx % n) + n) % n
	return Index{Face: nb.Face, Iy: ry, Ix: rx}
}

func (t *CubedSphereTopology) IndMoves(start Index, moves []Move) Index {
	cur := start
	for _, m := range moves {
		if cur.Face == -1 {
			return cur
		}
		cur = t.step(cur, m)
	}
	return cur
}

func (t *CubedSphereTopology) IndTendVec(starts []Index, tends []Move) []Index {
	out := make([]Index, len(starts))
	for i, s := range starts {
		out[i] = t.step(s, tends[i])
	}
	return out
}

func (t *CubedSphereTopology) FourMatrixForUV(faceSrc, faceDst int) UVRotation {
	if faceSrc < 0 || faceDst < 0 {
		return rotationFromAngle(0)
	}
	deg := t.relRotation[faceSrc][faceDst]
	if deg < 0 {
		// faces unreachable from one another: no defined relative
		// rotation, treat as aligned rather than fail the whole batch.
		deg = 0
	}
	return rotationFromAngle(deg)
}

// translateToTendency converts a (dx,dy) cell-unit stencil offset into an
// ordered list of unit moves: vertical moves first (ups for dy>0, downs
// for dy<0), then horizontal moves (lefts for dx<0, rights for dx>0).
// This is the move-translation rule of spec §4.3.
func translateToTendency(dx, dy int) []Move {
	moves := make([]Move, 0, 4)
	if dy > 0 {
		for i := 0; i < dy; i++ {
			moves = append(moves, MoveUp)
		}
	} else {
		for i := 0; i < -dy; i++ {
			moves = append(moves, MoveDown)
		}
	}
	if dx < 0 {
		for i := 0; i < -dx; i++ {
			moves = append(moves, MoveLeft)
		}
	} else {
		for i := 0; i < dx; i++ {
			moves = append(moves, MoveRight)
		}
	}
	return moves
}
