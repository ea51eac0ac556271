package oceaninterp

import "github.com/ctessum/sparse"

// deriveMaskU derives the U-point mask from the base C-point mask: a U
// point is wet if its own C cell is wet, or if it sits on the interface
// with a wet cell to the left (MITgcm convention: U lives on the west
// face of its cell). Ported from get_masks.py's mask_u_node.
func deriveMaskU(maskC *sparse.DenseArray, topo Topology) *sparse.DenseArray {
	return deriveFaceMask(maskC, topo, MoveLeft)
}

// deriveMaskV derives the V-point mask: wet if the cell is wet, or if
// the cell to the south (MoveDown) is wet. Ported from mask_v_node.
func deriveMaskV(maskC *sparse.DenseArray, topo Topology) *sparse.DenseArray {
	return deriveFaceMask(maskC, topo, MoveDown)
}

// deriveFaceMask implements the shared shape of mask_u_node/mask_v_node:
// start from a copy of maskC, then for every dry cell check the named
// horizontal neighbor and unmask if it is wet.
func deriveFaceMask(maskC *sparse.DenseArray, topo Topology, neighbor Move) *sparse.DenseArray {
	out := sparse.ZerosDense(maskC.Shape...)
	copy(out.Elements, maskC.Elements)

	shape := maskC.Shape
	nFaces, nz, ny, nx := shape[0], shape[1], shape[2], shape[3]
	for f := 0; f < nFaces; f++ {
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < nx; ix++ {
					if maskC.Get(f, iz, iy, ix) != 0 {
						continue
					}
					nb := topo.IndMoves(Index{Face: f, Iy: iy, Ix: ix}, []Move{neighbor})
					if nb.Face < 0 {
						continue
					}
					if maskC.Get(nb.Face, iz, nb.Iy, nb.Ix) != 0 {
						out.Set(1, f, iz, iy, ix)
					}
				}
			}
		}
	}
	return out
}

// deriveMaskWvel derives the vertical-velocity-point mask: a W point is
// wet if its own cell is wet, or the cell above it (shallower, lower iz)
// is wet. Ported from get_masks.py's mask_w_node; the surface level
// (iz==0) has no cell above so it equals maskC there.
func deriveMaskWvel(maskC *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(maskC.Shape...)
	shape := maskC.Shape
	nFaces, nz, ny, nx := shape[0], shape[1], shape[2], shape[3]
	for f := 0; f < nFaces; f++ {
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for ix := 0; ix < nx; ix++ {
					v := maskC.Get(f, iz, iy, ix)
					if iz > 0 && maskC.Get(f, iz-1, iy, ix) != 0 {
						v = 1
					}
					out.Set(v, f, iz, iy, ix)
				}
			}
		}
	}
	return out
}

// GetMasked returns the mask value at the grid's base C-point array for
// the given GridType, deriving and caching the U/V/Wvel variants lazily
// on first use (get_masks.py builds these once per dataset and warns
// that it is slow; this mirrors that by paying the cost once).
func (g *Grid) GetMasked(gt GridType) *sparse.DenseArray {
	if gt == GridC {
		return g.Mask
	}

	g.maskMu.RLock()
	cached, ok := g.maskCache[gt]
	g.maskMu.RUnlock()
	if ok {
		return cached
	}

	g.maskMu.Lock()
	defer g.maskMu.Unlock()
	if cached, ok := g.maskCache[gt]; ok {
		return cached
	}

	if debugLevel == DebugHigh || debugLevel == DebugVeryHigh {
		log.Infof("oceaninterp: deriving mask%s, this is a one-time cost", gt)
	}

	var derived *sparse.DenseArray
	switch gt {
	case GridU:
		derived = deriveMaskU(g.Mask, g.topo)
	case GridV:
		derived = deriveMaskV(g.Mask, g.topo)
	case GridWvel:
		derived = deriveMaskWvel(g.Mask)
	default:
		derived = g.Mask
	}
	g.maskCache[gt] = derived
	return derived
}

// MaskAt implements OceData.MaskAt against the Grid's own mask tables.
// A Grid with no base mask warns and treats every on-grid index as wet.
func (g *Grid) MaskAt(gt GridType, z int, idx []Index) []bool {
	out := make([]bool, len(idx))
	if g.Mask == nil {
		log.Warnf("oceaninterp: maskC is missing, treating every point as wet")
		for i, ix := range idx {
			out[i] = ix.Face >= 0
		}
		return out
	}
	m := g.GetMasked(gt)
	for i, ix := range idx {
		if ix.Face < 0 {
			out[i] = false
			continue
		}
		out[i] = m.Get(ix.Face, z, ix.Iy, ix.Ix) != 0
	}
	return out
}
