package oceaninterp

import (
	"fmt"
	"math"
)

// Position is a single query point bound to a dataset: its nearest
// C-point index, fractional horizontal/vertical/temporal offsets, and
// the local axis cosine/sine used to rotate interpolated vectors into
// the geographic (east,north) frame. It is the Go analogue of
// eulerian.py's position class, built for one point instead of a
// vectorized batch (spec §3, §9).
type Position struct {
	Data OceData

	Cell Index
	Rx, Ry float64 // horizontal fractional offset in [-0.5,0.5)
	Iz     int
	Rz     float64 // fractional offset toward the shallower neighbor
	Izl    int
	Rzl    float64
	It     int
	Rt     float64

	Cs, Sn float64 // local axis cosine/sine, for vector rotation to geographic frame

	cache *KernelFuncCache
}

// FromLatLon locates (lon,lat,z,t) against data and returns a bound
// Position ready for interpolation (from_latlon of eulerian.py).
func FromLatLon(data OceData, lon, lat, z, t float64) (*Position, error) {
	cell, rx, ry, cs, sn, err := data.FindRelH(to180(lon), lat)
	if err != nil {
		return nil, fmt.Errorf("oceaninterp: locating (%f,%f): %w", lon, lat, err)
	}
	iz, rz, err := data.FindRelV(z)
	if err != nil {
		return nil, fmt.Errorf("oceaninterp: locating depth %f: %w", z, err)
	}
	izl, rzl, err := data.FindRelVLin(z)
	if err != nil {
		return nil, fmt.Errorf("oceaninterp: locating depth %f on Zl: %w", z, err)
	}
	it, rt, err := data.FindRelT(t)
	if err != nil {
		return nil, fmt.Errorf("oceaninterp: locating time %f: %w", t, err)
	}
	return &Position{
		Data: data,
		Cell: cell, Rx: rx, Ry: ry,
		Iz: iz, Rz: rz, Izl: izl, Rzl: rzl,
		It: it, Rt: rt,
		Cs: cs, Sn: sn,
		cache: NewKernelFuncCache(),
	}, nil
}

// to180 folds a longitude of any range onto [-180,180) (eulerian.py's
// to_180).
func to180(x float64) float64 {
	x = math.Mod(x, 360)
	if x < 0 {
		x += 360
	}
	if x >= 180 {
		x -= 360
	}
	return x
}

// Subset returns a copy of p with every field unchanged, including the
// shared kernel-function cache pointer; no field is zeroed. A Position
// holds a single point, so there is no batch to restrict (the Go
// counterpart of eulerian.py's position.subset).
func (p *Position) Subset() Position {
	return *p
}

// localToLatLon rotates a local (u,v) pair into the geographic
// (east,north) frame using the cosine/sine of the local grid rotation
// (eulerian.py's local_to_latlon).
func localToLatLon(u, v, cs, sn float64) (float64, float64) {
	return u*cs - v*sn, u*sn + v*cs
}

// CellCornerLonLat recovers p's absolute longitude/latitude from the
// bilinear weighting of its cell's four corner nodes, rather than from
// its center and fractional offset — a cross-check of the analytic
// (center+offset) path against the grid's own corner geometry (ported
// from lat2ind.py's find_px_py/weight_f_node). The south-west corner of
// idx is XG[idx]/YG[idx]; the other three corners are the south-west
// corners of idx's right, up, and up-right neighbors, resolved through
// the topology so a cell at a face seam still finds its true neighbors.
func (p *Position) CellCornerLonLat() (lon, lat float64, err error) {
	topo := p.Data.Topology()
	right := topo.IndMoves(p.Cell, []Move{MoveRight})
	up := topo.IndMoves(p.Cell, []Move{MoveUp})
	upRight := topo.IndMoves(p.Cell, []Move{MoveUp, MoveRight})

	sw := p.Cell
	if right.Face < 0 || up.Face < 0 || upRight.Face < 0 {
		return 0, 0, fmt.Errorf("oceaninterp: cell %v has no interior corner quad to weight", p.Cell)
	}

	swLon, swLat := p.Data.CellCorner(sw)
	seLon, seLat := p.Data.CellCorner(right)
	nwLon, nwLat := p.Data.CellCorner(up)
	neLon, neLat := p.Data.CellCorner(upRight)

	// rx,ry are in [-0.5,0.5) around the cell center; shift to [0,1) to
	// weight from the south-west corner toward the north-east one.
	fx := p.Rx + 0.5
	fy := p.Ry + 0.5

	lon = swLon*(1-fx)*(1-fy) + seLon*fx*(1-fy) + nwLon*(1-fx)*fy + neLon*fx*fy
	lat = swLat*(1-fx)*(1-fy) + seLat*fx*(1-fy) + nwLat*(1-fx)*fy + neLat*fx*fy
	return lon, lat, nil
}

// Interpolate evaluates a scalar field at p, gathering its 4-D
// neighborhood, deriving the appropriate mask for its staggering,
// compiling (and caching) the Lagrange weight function for the
// fully-wet doll at each vertical level, and returning the weighted
// sum. NaN field samples (masked-out neighbors the doll selector still
// reached) are treated as zero, matching np.nan_to_num in
// eulerian.py's interpolate.
func (p *Position) Interpolate(name string, cfg *Config) (float64, error) {
	f, err := p.Data.Field(name)
	if err != nil {
		return 0, err
	}
	return p.interpolateField(f, cfg)
}

func (p *Position) interpolateField(f Field, cfg *Config) (float64, error) {
	if len(f.Data.Shape) != f.Kind.Dims() {
		return 0, fmt.Errorf("%w: field %q has rank %d, want %d for its kind", ErrDimensionMismatch, f.Name, len(f.Data.Shape), f.Kind.Dims())
	}
	topo := p.Data.Topology()
	hkernel := DefaultKernel()
	russianDoll := cfg.RussianDoll

	rx, ry := p.Rx, p.Ry
	dx, dy := f.Kind.Staggered()
	rx += dx
	ry += dy

	itMax := 0
	if f.Kind == Scalar4D || f.Kind == VelocityU || f.Kind == VelocityV || f.Kind == VelocityW || f.Kind == Surface {
		itMax = f.Data.Shape[0] - 1
	}

	iz := p.Iz
	gt := GridC
	switch f.Kind {
	case VelocityW:
		iz = p.Izl
		gt = GridWvel
	case VelocityU:
		gt = GridU
	case VelocityV:
		gt = GridV
	}

	fat := Fatten4D(p.Cell, iz, p.It, itMax, hkernel, topo, cfg.VKernel, cfg.TKernel)

	rz := p.Rz
	if f.Kind == VelocityW {
		rz = p.Rzl
	}

	wetAt := func(jz int) []bool {
		if f.Kind == Scalar2D {
			return p.Data.MaskAt(gt, 0, fat.H)
		}
		return p.Data.MaskAt(gt, fat.Iz[jz], fat.H)
	}

	weights, err := GetWeight4D(rx, ry, rz, p.Rt, fat, hkernel, russianDoll, cfg.VKernel, cfg.TKernel, cfg.BottomScheme, wetAt, p.cache)
	if err != nil {
		return 0, err
	}

	sum := 0.0
	for jz := range weights {
		for jt := range weights[jz] {
			w := weights[jz][jt]
			for k, node := range fat.H {
				if w[k] == 0 || node.Face < 0 {
					continue
				}
				v := sampleField(f, fat.It[jt], fat.Iz[jz], node)
				if math.IsNaN(v) {
					v = 0
				}
				sum += v * w[k]
			}
		}
	}
	return sum, nil
}

// sampleField reads a single scalar from a field's dense array,
// indexing only the dimensions the field's kind declares (2-D fields
// have no time or depth axis, 3-D fields have no time axis).
func sampleField(f Field, it, iz int, node Index) float64 {
	switch f.Kind {
	case Scalar2D:
		return f.Data.Get(node.Face, node.Iy, node.Ix)
	case Scalar3D:
		return f.Data.Get(node.Face, iz, node.Iy, node.Ix)
	case Surface:
		return f.Data.Get(it, node.Face, node.Iy, node.Ix)
	default:
		return f.Data.Get(it, iz, node.Face, node.Iy, node.Ix)
	}
}

// InterpolateVector evaluates a horizontal (u,v) vector field pair at
// p. When the point's stencil crosses a face seam, each neighbor's
// sampled (u,v) is rotated into the home cell's face axes via
// Topology.FourMatrixForUV before being weighted and summed — the
// cross-face transport handling of spec §4.1/§9 — and the result is
// optionally rotated once more into the geographic frame if
// cfg.VecTransform is set (eulerian.py's vec_transform).
func (p *Position) InterpolateVector(uName, vName string, cfg *Config) (u, v float64, err error) {
	uf, err := p.Data.Field(uName)
	if err != nil {
		return 0, 0, err
	}
	vf, err := p.Data.Field(vName)
	if err != nil {
		return 0, 0, err
	}
	if len(uf.Data.Shape) != uf.Kind.Dims() {
		return 0, 0, fmt.Errorf("%w: field %q has rank %d, want %d for its kind", ErrDimensionMismatch, uf.Name, len(uf.Data.Shape), uf.Kind.Dims())
	}
	if len(vf.Data.Shape) != vf.Kind.Dims() {
		return 0, 0, fmt.Errorf("%w: field %q has rank %d, want %d for its kind", ErrDimensionMismatch, vf.Name, len(vf.Data.Shape), vf.Kind.Dims())
	}
	topo := p.Data.Topology()
	hkernel := DefaultKernel()
	if len(uf.Data.Shape) != len(vf.Data.Shape) {
		return 0, 0, ErrVectorKernelMismatch
	}

	itMax := uf.Data.Shape[0] - 1
	fatU := Fatten4D(p.Cell, p.Iz, p.It, itMax, hkernel, topo, cfg.VKernel, cfg.TKernel)
	fatV := fatU

	wetAtU := func(jz int) []bool { return p.Data.MaskAt(GridU, fatU.Iz[jz], fatU.H) }
	wetAtV := func(jz int) []bool { return p.Data.MaskAt(GridV, fatV.Iz[jz], fatV.H) }

	uWeights, err := GetWeight4D(p.Rx+0.5, p.Ry, p.Rz, p.Rt, fatU, hkernel, cfg.RussianDoll, cfg.VKernel, cfg.TKernel, cfg.BottomScheme, wetAtU, p.cache)
	if err != nil {
		return 0, 0, err
	}
	vWeights, err := GetWeight4D(p.Rx, p.Ry+0.5, p.Rz, p.Rt, fatV, hkernel, cfg.RussianDoll, cfg.VKernel, cfg.TKernel, cfg.BottomScheme, wetAtV, p.cache)
	if err != nil {
		return 0, 0, err
	}

	var sumU, sumV float64
	for jz := range uWeights {
		for jt := range uWeights[jz] {
			wu := uWeights[jz][jt]
			wv := vWeights[jz][jt]
			for k, node := range fatU.H {
				if node.Face < 0 {
					continue
				}
				rawU := sampleField(uf, fatU.It[jt], fatU.Iz[jz], node)
				rawV := sampleField(vf, fatV.It[jt], fatV.Iz[jz], node)
				if math.IsNaN(rawU) {
					rawU = 0
				}
				if math.IsNaN(rawV) {
					rawV = 0
				}
				if node.Face != p.Cell.Face {
					rot := topo.FourMatrixForUV(node.Face, p.Cell.Face)
					rawU, rawV = rot.Apply(rawU, rawV)
				}
				sumU += rawU * wu[k]
				sumV += rawV * wv[k]
			}
		}
	}

	if cfg.VecTransform {
		sumU, sumV = localToLatLon(sumU, sumV, p.Cs, p.Sn)
	}
	return sumU, sumV, nil
}
