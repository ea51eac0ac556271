package oceaninterp

import (
	"fmt"
	"math"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/sparse"
)

// FieldKind tags the staggering location and rank of a named field, the
// "field-name to dimension tuple" lookup of spec §9.
type FieldKind int

const (
	// Scalar2D lives on the horizontal C points at a single depth/time
	// (e.g. a surface field): dims (Y,X).
	Scalar2D FieldKind = iota
	// Scalar3D lives on the horizontal C points at every depth: dims
	// (Z,Y,X).
	Scalar3D
	// Scalar4D lives on the horizontal C points, every depth, every
	// stored time: dims (T,Z,Y,X).
	Scalar4D
	// VelocityU lives on the U points (Xp1 staggering): dims (T,Z,Y,Xp1).
	VelocityU
	// VelocityV lives on the V points (Yp1 staggering): dims (T,Z,Yp1,X).
	VelocityV
	// VelocityW lives on the W points (Zl staggering): dims (T,Zl,Y,X).
	VelocityW
	// Surface is a 2-D, time-varying field with no vertical dimension:
	// dims (T,Y,X).
	Surface
)

// Dims returns the backing array rank a field of this kind must have —
// the number of indices sampleField passes to Data.Get, which always
// includes the grid's own Face axis alongside whichever of (T,Z,Y,X)
// the kind carries (e.g. Scalar3D is (Face,Z,Y,X): rank 4; VelocityU is
// (T,Z,Face,Y,X): rank 5).
func (k FieldKind) Dims() int {
	switch k {
	case Scalar2D:
		return 3
	case Scalar3D, Surface:
		return 4
	default:
		return 5
	}
}

// Staggered reports whether this kind is sampled at a Xp1/Yp1/Zl offset
// from the C-point grid, and the (dx,dy) half-cell shift that applies to
// rx/ry before interpolation (spec §9: "Xp1/Yp1 +half shift").
func (k FieldKind) Staggered() (dx, dy float64) {
	switch k {
	case VelocityU:
		return 0.5, 0
	case VelocityV:
		return 0, 0.5
	default:
		return 0, 0
	}
}

// Field describes one named variable: its kind and the dense backing
// store for it.
type Field struct {
	Name string
	Kind FieldKind
	Data *sparse.DenseArray
}

// OceData is the read-only view of a gridded ocean dataset that the rest
// of this package interpolates and advects against: named field lookup,
// nearest-cell location, and face topology (spec §3, §4.2). Implementers
// decide how the underlying arrays are stored and built; Grid is the
// implementation this package ships.
type OceData interface {
	// Field returns the named field's descriptor, or an error wrapping
	// ErrMissingVariable.
	Field(name string) (Field, error)

	// Topology returns the face-adjacency oracle for this dataset.
	Topology() Topology

	// FindRelH returns the nearest C-point index and the fractional
	// horizontal offsets rx,ry in [-0.5,0.5) of (lon,lat) from that
	// point's center, plus the local axis cosine/sine for vector
	// rotation to the geographic frame.
	FindRelH(lon, lat float64) (idx Index, rx, ry, cs, sn float64, err error)

	// FindRelV locates the nearest or enclosing vertical level for depth
	// z among cell-center depths (used by nearest/Dz vertical kernels).
	FindRelV(z float64) (iz int, rz float64, err error)

	// FindRelVLin is as FindRelV but locates within the cell-edge (Zl)
	// depths for vertically-staggered (W) fields.
	FindRelVLin(z float64) (izl int, rzl float64, err error)

	// FindRelT locates the nearest stored time index for t (in the
	// dataset's own time units) and the fractional offset rt.
	FindRelT(t float64) (it int, rt float64, err error)

	// FindRelTLin is FindRelT specialized for fields stored at
	// half-integer ("Dt") time offsets.
	FindRelTLin(t float64) (it int, rt float64, err error)

	// MaskC returns the base tracer-point wet/dry mask.
	MaskC() *sparse.DenseArray

	// MaskAt reports, for each horizontal index in idx at vertical level
	// z, whether the named staggering's mask marks it wet. Face==-1
	// entries (off the grid) are always reported dry.
	MaskAt(gt GridType, z int, idx []Index) []bool

	// Spacing returns the physical cell width and height at idx, and the
	// vertical spacing at Zl level izl — used by the particle stepper to
	// convert sampled velocities into fractional-coordinate rates.
	Spacing(idx Index, izl int) (dx, dy, dzl float64)

	// CellCorner returns the south-west corner longitude/latitude of idx,
	// used to recover a query point's absolute position from its
	// corner geometry rather than from its center and fractional offset
	// (Position.CellCornerLonLat).
	CellCorner(idx Index) (lon, lat float64)
}

// gridCell is the rtree payload for Grid's horizontal point index: a
// single C-point's integer grid location plus its geographic center,
// wrapping framework.go's pattern of indexing *Cell values keyed by
// their polygon bounds.
type gridCell struct {
	Face, Iy, Ix int
	Lon, Lat     float64
}

func (c *gridCell) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: c.Lon, Y: c.Lat},
		Max: geom.Point{X: c.Lon, Y: c.Lat},
	}
}

// Grid is the in-memory OceData implementation: dense coordinate,
// spacing and mask tables held as *sparse.DenseArray (mirroring the
// teacher's ctmVariable.data layout), a rtree spatial index over cell
// centers for nearest-neighbor horizontal location (mirroring
// framework.go's cell index), and a lazily-derived staggered mask cache.
type Grid struct {
	// XC, YC are the C-point cell-center longitude/latitude, indexed
	// [face][iy][ix] by way of a DenseArray of shape (nFaces,ny,nx).
	XC, YC *sparse.DenseArray
	// XG, YG are the C-point cell corner (south-west) longitude/latitude.
	XG, YG *sparse.DenseArray
	// DXC, DYC are the C-point cell widths in meters (FindRelH and
	// rel2latlon convert degrees to meters with deg2m).
	DXC, DYC *sparse.DenseArray
	// CS, SN are the local axis cosine/sine at each C point, for rotating
	// interpolated (u,v) into the geographic frame.
	CS, SN *sparse.DenseArray

	// Z, Zl are cell-center and cell-edge depths, shared across faces,
	// index 0 at the surface and running more negative with increasing
	// index (the usual MITgcm convention); locate1D handles both this
	// decreasing order and a plain increasing one.
	Z, Zl []float64
	// DZl is the vertical spacing at each Zl level, used to convert a
	// sampled vertical velocity into a fractional-coordinate rate (the
	// particle stepper's self.dZl, a one-back roll of drF with the
	// surface entry replaced by a tiny epsilon rather than zero).
	DZl []float64
	// T is the stored time axis, in the dataset's own units.
	T []float64

	// Mask is the base tracer-point wet(1)/dry(0) mask, shape
	// (nFaces,nZ,ny,nx): one level per cell-center depth, since the
	// Wvel mask derivation needs a vertical neighbor.
	Mask *sparse.DenseArray

	topo   Topology
	fields map[string]Field

	index *rtree.Rtree

	maskMu    sync.RWMutex
	maskCache map[GridType]*sparse.DenseArray
}

// NewGrid builds a Grid from its coordinate and mask tables and indexes
// every C point for nearest-neighbor horizontal lookup. The caller
// supplies arrays already shaped (nFaces,ny,nx); NewGrid does not read
// from disk (spec Non-goals: no file I/O in this package).
func NewGrid(topo Topology, xc, yc, xg, yg, dxc, dyc, cs, sn, mask *sparse.DenseArray, z, zl, dzl, t []float64) *Grid {
	g := &Grid{
		XC: xc, YC: yc, XG: xg, YG: yg,
		DXC: dxc, DYC: dyc,
		CS: cs, SN: sn,
		Z: z, Zl: zl, DZl: dzl, T: t,
		Mask:      mask,
		topo:      topo,
		fields:    make(map[string]Field),
		maskCache: make(map[GridType]*sparse.DenseArray),
	}
	g.buildIndex()
	return g
}

func (g *Grid) buildIndex() {
	g.index = rtree.NewTree(25, 50)
	shape := g.XC.Shape
	nFaces, ny, nx := shape[0], shape[1], shape[2]
	for f := 0; f < nFaces; f++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				g.index.Insert(&gridCell{
					Face: f, Iy: iy, Ix: ix,
					Lon: g.XC.Get(f, iy, ix),
					Lat: g.YC.Get(f, iy, ix),
				})
			}
		}
	}
}

// AddField registers a named field for later lookup via Field.
func (g *Grid) AddField(name string, kind FieldKind, data *sparse.DenseArray) {
	g.fields[name] = Field{Name: name, Kind: kind, Data: data}
}

func (g *Grid) Field(name string) (Field, error) {
	f, ok := g.fields[name]
	if !ok {
		return Field{}, fmt.Errorf("%w: %q", ErrMissingVariable, name)
	}
	return f, nil
}

func (g *Grid) Topology() Topology { return g.topo }

func (g *Grid) MaskC() *sparse.DenseArray { return g.Mask }

// FindRelH finds the nearest C point to (lon,lat) via a small
// intersect-box search around the point (growing the box until it finds
// at least one candidate), mirroring framework.go's SearchIntersect use
// over cell geometry, then converts the raw (dlon,dlat) offset into the
// local rotated, meters-based cell fraction the same way rel2latlon
// converts it back: rotate by the cell's (cs,sn) axis, scale degrees to
// meters by deg2m (with a cos(lat) correction on the east-west leg), and
// divide by the local cell spacing. This is the exact inverse of
// rel2latlon (old_py/particle.py's update_after_cell_change /
// rel2latlon), which is required for the locate/step/locate loop in
// Advect to be self-consistent on a rotated (sn != 0) grid.
func (g *Grid) FindRelH(lon, lat float64) (Index, float64, float64, float64, float64, error) {
	const initialHalfWidth = 0.25
	halfWidth := initialHalfWidth
	var best *gridCell
	for tries := 0; tries < 10; tries++ {
		box := &geom.Bounds{
			Min: geom.Point{X: lon - halfWidth, Y: lat - halfWidth},
			Max: geom.Point{X: lon + halfWidth, Y: lat + halfWidth},
		}
		cands := g.index.SearchIntersect(box)
		if len(cands) > 0 {
			bestDist := -1.0
			for _, c := range cands {
				gc := c.(*gridCell)
				d := (gc.Lon-lon)*(gc.Lon-lon) + (gc.Lat-lat)*(gc.Lat-lat)
				if bestDist < 0 || d < bestDist {
					bestDist = d
					best = gc
				}
			}
			break
		}
		halfWidth *= 4
	}
	if best == nil {
		return Index{}, 0, 0, 0, 0, fmt.Errorf("oceaninterp: no grid cell found near (%f,%f)", lon, lat)
	}
	dx := g.DXC.Get(best.Face, best.Iy, best.Ix)
	dy := g.DYC.Get(best.Face, best.Iy, best.Ix)
	cs := g.CS.Get(best.Face, best.Iy, best.Ix)
	sn := g.SN.Get(best.Face, best.Iy, best.Ix)

	dlon := lon - best.Lon
	dlat := lat - best.Lat
	cosby := math.Cos(best.Lat * math.Pi / 180)
	rx := (dlon*cosby*cs + dlat*sn) * deg2m / dx
	ry := (dlat*cs - dlon*sn*cosby) * deg2m / dy

	return Index{Face: best.Face, Iy: best.Iy, Ix: best.Ix}, rx, ry, cs, sn, nil
}

// locate1D is shared by the four axis locators: find the bracketing
// interval in a monotonic axis and return the lower index plus the
// fractional offset in [0,1] (1 only when v is at or beyond the far end
// of the axis). The axis may run increasing (a stored time
// axis) or decreasing (a depth axis in the usual MITgcm convention, Z[0]
// at the surface running more negative with increasing index); the
// search direction is picked from the sign of axis[len-1]-axis[0].
func locate1D(axis []float64, v float64) (int, float64, error) {
	if len(axis) == 0 {
		return 0, 0, fmt.Errorf("oceaninterp: empty axis")
	}
	if len(axis) == 1 {
		return 0, 0, nil
	}
	if axis[len(axis)-1] >= axis[0] {
		return locate1DIncreasing(axis, v)
	}
	// axis is decreasing: locate against its reverse (increasing) and map
	// the bracket back so the returned index names the *deeper* (larger
	// index, more negative value) of the two bracketing points, with frac
	// measuring the distance back toward the shallower neighbor at
	// index-1 — matching FattenV's (iz, upper=iz-1) pairing and
	// verticalWeights' (1-rz at iz, rz at upper) convention.
	ri, frac, err := locate1DIncreasing(reversed(axis), v)
	if err != nil {
		return 0, 0, err
	}
	return len(axis) - 1 - ri, frac, nil
}

func reversed(axis []float64) []float64 {
	out := make([]float64, len(axis))
	for i, x := range axis {
		out[len(axis)-1-i] = x
	}
	return out
}

func locate1DIncreasing(axis []float64, v float64) (int, float64, error) {
	if v <= axis[0] {
		return 0, 0, nil
	}
	if v >= axis[len(axis)-1] {
		return len(axis) - 2, 1, nil
	}
	lo := 0
	hi := len(axis) - 1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if axis[mid] <= v {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (v - axis[lo]) / (axis[lo+1] - axis[lo])
	return lo, frac, nil
}

func (g *Grid) FindRelV(z float64) (int, float64, error) {
	return locate1D(g.Z, z)
}

func (g *Grid) FindRelVLin(z float64) (int, float64, error) {
	return locate1D(g.Zl, z)
}

func (g *Grid) FindRelT(t float64) (int, float64, error) {
	return locate1D(g.T, t)
}

// FindRelTLin locates t on the same single time axis as FindRelT; Grid
// stores no separate half-integer time axis.
func (g *Grid) FindRelTLin(t float64) (int, float64, error) {
	return locate1D(g.T, t)
}

func (g *Grid) CellCorner(idx Index) (float64, float64) {
	return g.XG.Get(idx.Face, idx.Iy, idx.Ix), g.YG.Get(idx.Face, idx.Iy, idx.Ix)
}

func (g *Grid) Spacing(idx Index, izl int) (float64, float64, float64) {
	dx := g.DXC.Get(idx.Face, idx.Iy, idx.Ix)
	dy := g.DYC.Get(idx.Face, idx.Iy, idx.Ix)
	dzl := 1e-10
	if izl >= 0 && izl < len(g.DZl) {
		dzl = g.DZl[izl]
	}
	return dx, dy, dzl
}
