package oceaninterp

import (
	"math"
)

// deg2m converts one degree of latitude (and, after the cosine
// correction, longitude) to meters — the reference's deg2m constant.
const deg2m = 6371e3 * math.Pi / 180

const maxAdvectIterations = 200

// Particle is a single Lagrangian tracer advected through an OceData
// velocity field by the closed-form, linearized-in-cell stepper of
// old_py/particle.py. Unlike Position (built for scalar/vector
// interpolation at a fixed point in time), a Particle owns mutable
// state that advances as it steps.
type Particle struct {
	Data                 OceData
	Cfg                  *Config
	UName, VName, WName string

	Lon, Lat, Dep, T float64

	Cell       Index
	Izl        int
	Rx, Ry, Rzl float64
	Cs, Sn     float64
	Bx, By, Bz float64
	Dx, Dy, Dzl float64

	U, V, W, Du, Dv, Dw float64

	cache *KernelFuncCache
}

// NewParticle locates (lon,lat,dep,t) against data and returns a
// Particle ready to advect. uname/vname/wname name the velocity field
// triplet to sample (particle.__init__'s uname/vname/wname).
func NewParticle(data OceData, lon, lat, dep, t float64, uname, vname, wname string, cfg *Config) (*Particle, error) {
	p := &Particle{
		Data: data, Cfg: cfg,
		UName: uname, VName: vname, WName: wname,
		Lon: lon, Lat: lat, Dep: dep, T: t,
		cache: NewKernelFuncCache(),
	}
	if err := p.locate(); err != nil {
		return nil, err
	}
	if err := p.updateUVW(); err != nil {
		return nil, err
	}
	return p, nil
}

// locate recomputes the particle's cell, fractional coordinates and
// local grid metadata from its current (Lon,Lat,Dep) — the reference's
// update_after_cell_change, split out so NewParticle can share it.
func (p *Particle) locate() error {
	cell, rx, ry, cs, sn, err := p.Data.FindRelH(to180(p.Lon), p.Lat)
	if err != nil {
		return err
	}
	izl, rzl, err := p.Data.FindRelVLin(p.Dep)
	if err != nil {
		return err
	}
	p.Cell, p.Rx, p.Ry, p.Cs, p.Sn = cell, rx, ry, cs, sn
	p.Izl, p.Rzl = izl, rzl
	p.Dx, p.Dy, p.Dzl = p.Data.Spacing(cell, izl)
	// Bx, By, Bz are the base point rel2latlon adds a cell-local offset
	// to: undo rel2latlon's displacement at (rx,ry,rzl) from the current
	// absolute position.
	tx, ty := rx*p.Dx/deg2m, ry*p.Dy/deg2m
	p.By = p.Lat - (tx*sn + ty*cs)
	p.Bx = to180(p.Lon) - (tx*cs-ty*sn)/math.Cos(p.By*math.Pi/180)
	p.Bz = p.Dep - p.Dzl*rzl
	return nil
}

// gatherComponent samples one velocity component and its horizontal
// derivative along the component's own axis at the particle's current
// cell, returning the raw (value, derivative) dot products before the
// caller divides by the component's physical spacing.
func (p *Particle) gatherComponent(name string, kernel Kernel, dolls []Doll, gt GridType, staggerDx, staggerDy float64, derivKind WeightKind, zkernel VKernel, bottom BottomScheme) (value, deriv float64, err error) {
	f, err := p.Data.Field(name)
	if err != nil {
		return 0, 0, err
	}
	topo := p.Data.Topology()
	itMax := f.Data.Shape[0] - 1
	it, rt, err := p.Data.FindRelT(p.T)
	if err != nil {
		return 0, 0, err
	}
	fat := Fatten4D(p.Cell, p.Izl, it, itMax, kernel, topo, zkernel, p.Cfg.TKernel)

	wetAt := func(jz int) []bool { return p.Data.MaskAt(gt, fat.Iz[jz], fat.H) }

	valW, err := GetWeight4D(p.Rx+staggerDx, p.Ry+staggerDy, p.Rzl, rt, fat, kernel, dolls, zkernel, p.Cfg.TKernel, bottom, wetAt, p.cache)
	if err != nil {
		return 0, 0, err
	}
	derivCache := p.cache
	derivW, err := getWeight4DWithKind(p.Rx+staggerDx, p.Ry+staggerDy, p.Rzl, rt, fat, kernel, dolls, zkernel, p.Cfg.TKernel, bottom, wetAt, derivCache, derivKind)
	if err != nil {
		return 0, 0, err
	}

	for jz := range valW {
		for jt := range valW[jz] {
			vw := valW[jz][jt]
			dw := derivW[jz][jt]
			for k, node := range fat.H {
				if node.Face < 0 {
					continue
				}
				raw := sampleField(f, fat.It[jt], fat.Iz[jz], node)
				if math.IsNaN(raw) {
					raw = 0
				}
				if gt == GridWvel && p.Cfg.DontFly && fat.Iz[jz] == 0 {
					raw = 0
				}
				value += raw * vw[k]
				deriv += raw * dw[k]
			}
		}
	}
	return value, deriv, nil
}

// gatherUV jointly samples u and v and their horizontal derivatives at
// the particle's current cell, rotating any neighbor sampled from a
// different topology face into the home cell's face axes via
// FourMatrixForUV before weighting — the same cross-face handling
// InterpolateVector applies, needed here because a u/v gather is a
// vector quantity, unlike the scalar w gathered by gatherComponent.
// u and v are fattened one vertical level shallower than w (izl-1,
// clamped to the surface), matching old_py/particle.py's get_u_du
// (self.izl-1 for u,v fattening, self.izl only for w).
func (p *Particle) gatherUV() (u, du, v, dv float64, err error) {
	uf, err := p.Data.Field(p.UName)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	vf, err := p.Data.Field(p.VName)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	topo := p.Data.Topology()
	kernel := uKernel()
	itMax := uf.Data.Shape[0] - 1
	it, rt, err := p.Data.FindRelT(p.T)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	zCenter := p.Izl - 1
	if zCenter < 0 {
		zCenter = 0
	}
	fat := Fatten4D(p.Cell, zCenter, it, itMax, kernel, topo, VNearest, p.Cfg.TKernel)

	wetAtU := func(jz int) []bool { return p.Data.MaskAt(GridU, fat.Iz[jz], fat.H) }
	wetAtV := func(jz int) []bool { return p.Data.MaskAt(GridV, fat.Iz[jz], fat.H) }

	valWU, err := GetWeight4D(p.Rx+0.5, p.Ry, p.Rzl, rt, fat, kernel, uDoll(), VNearest, p.Cfg.TKernel, p.Cfg.BottomScheme, wetAtU, p.cache)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	derWU, err := getWeight4DWithKind(p.Rx+0.5, p.Ry, p.Rzl, rt, fat, kernel, uDoll(), VNearest, p.Cfg.TKernel, p.Cfg.BottomScheme, wetAtU, p.cache, KindDx)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	valWV, err := GetWeight4D(p.Rx, p.Ry+0.5, p.Rzl, rt, fat, kernel, vDoll(), VNearest, p.Cfg.TKernel, p.Cfg.BottomScheme, wetAtV, p.cache)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	derWV, err := getWeight4DWithKind(p.Rx, p.Ry+0.5, p.Rzl, rt, fat, kernel, vDoll(), VNearest, p.Cfg.TKernel, p.Cfg.BottomScheme, wetAtV, p.cache, KindDy)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	for jz := range valWU {
		for jt := range valWU[jz] {
			wu, duw := valWU[jz][jt], derWU[jz][jt]
			wv, dvw := valWV[jz][jt], derWV[jz][jt]
			for k, node := range fat.H {
				if node.Face < 0 {
					continue
				}
				rawU := sampleField(uf, fat.It[jt], fat.Iz[jz], node)
				rawV := sampleField(vf, fat.It[jt], fat.Iz[jz], node)
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
				u += rawU * wu[k]
				du += rawU * duw[k]
				v += rawV * wv[k]
				dv += rawV * dvw[k]
			}
		}
	}
	return u, du, v, dv, nil
}

// getWeight4DWithKind is GetWeight4D generalized to a chosen weight kind
// for the horizontal cascade (KindInterp for the value pass, KindDx/Dy
// for the derivative pass), since GetWeight4D itself always composes
// KindInterp.
func getWeight4DWithKind(rx, ry, rz, rt float64, f Fattened4D, kernelLarge Kernel, russianDoll []Doll, vk VKernel, tk TKernel, bottom BottomScheme, wetAt func(jz int) []bool, cache *KernelFuncCache, kind WeightKind) ([][][]float64, error) {
	nz := len(f.Iz)
	nt := len(f.It)
	zw := verticalWeights(vk, rz, nz)
	tw := temporalWeights(tk, rt, nt)

	hw := make([][]float64, nz)
	for jz := 0; jz < nz; jz++ {
		order := 0
		if kind != KindInterp {
			order = 1
		}
		w, err := GetWeightCascade(rx, ry, wetAt(jz), kernelLarge, russianDoll, kind, order, cache)
		if err != nil {
			return nil, err
		}
		hw[jz] = w
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

// updateUVW resamples u, v, w and their local derivatives at the
// particle's current cell (get_u_du of old_py/particle.py), using the
// minimal stencils of uKernel/vKernel/wKernel. u and v use a nearest
// vertical kernel whatever Config.VKernel says; w uses a linear kernel
// for its value and a Dz kernel for its derivative, both with no bottom
// correction.
func (p *Particle) updateUVW() error {
	u, du, v, dv, err := p.gatherUV()
	if err != nil {
		return err
	}
	w, _, err := p.gatherComponent(p.WName, wKernel(), wDoll(), GridWvel, 0, 0, KindInterp, VLinear, BottomNone)
	if err != nil {
		return err
	}
	_, dw, err := p.gatherComponent(p.WName, wKernel(), wDoll(), GridWvel, 0, 0, KindInterp, VDz, BottomNone)
	if err != nil {
		return err
	}

	if p.Izl == 0 && p.Cfg.DontFly {
		w, dw = 0, 0
	}

	p.U, p.Du = u/p.Dx, du/p.Dx
	p.V, p.Dv = v/p.Dy, dv/p.Dy
	p.W, p.Dw = w/p.Dzl, dw/p.Dzl
	return nil
}

// increment is the closed-form displacement of a linearized-in-cell
// velocity field u(x)=u0+du*x over elapsed time t: integral of the ODE
// dx/dt = u0+du*x (reference's increment/stationary helpers).
func increment(t, u, du float64) float64 {
	if du == 0 {
		return u * t
	}
	return u / du * (math.Exp(du*t) - 1)
}

func stationary(t, u, du, x0 float64) float64 {
	return increment(t, u, du) + x0
}

// stationaryTime solves for the two times (one each direction) at which
// the linearized velocity field carries a particle starting at x0 to the
// cell-face boundaries x=-0.5 and x=0.5 (reference's stationary_time).
func stationaryTime(u, du, x0 float64) (tl, tr float64) {
	if du == 0 {
		if u == 0 {
			return math.Inf(-1), math.Inf(1)
		}
		return (-x0 - 0.5) / u, (0.5 - x0) / u
	}
	tl = math.Log(1-du/u*(0.5+x0)) / du
	tr = math.Log(1+du/u*(0.5-x0)) / du
	return tl, tr
}

// outOfBound reports whether the particle's fractional coordinates have
// left the home cell (reference's out_of_bound).
func (p *Particle) outOfBound() bool {
	xOut := p.Rx > 0.5 || p.Rx < -0.5
	yOut := p.Ry > 0.5 || p.Ry < -0.5
	zOut := p.Rzl > 1 || p.Rzl < 0
	return xOut || yOut || zOut
}

// trim nudges a fractional coordinate that lies on, within tol of, or a
// hair past a cell boundary to tol inside that boundary, adjusting the corresponding velocity
// component to match (reference's trim, tol = 1e-6, about 1 cm).
func (p *Particle) trim() {
	const tol = 1e-6
	if p.Rx >= 0.5-tol {
		cdx := (0.5 - tol) - p.Rx
		p.Rx += cdx
		p.U += p.Du * cdx
	}
	if p.Rx <= -0.5+tol {
		cdx := (-0.5 + tol) - p.Rx
		p.Rx += cdx
		p.U += p.Du * cdx
	}
	if p.Ry >= 0.5-tol {
		cdy := (0.5 - tol) - p.Ry
		p.Ry += cdy
		p.V += p.Dv * cdy
	}
	if p.Ry <= -0.5+tol {
		cdy := (-0.5 + tol) - p.Ry
		p.Ry += cdy
		p.V += p.Dv * cdy
	}
	if p.Rzl >= 1-tol {
		cdz := (1 - tol) - p.Rzl
		p.Rzl += cdz
		p.W += p.Dw * cdz
	}
	if p.Rzl <= tol {
		cdz := tol - p.Rzl
		p.Rzl += cdz
		p.W += p.Dw * cdz
	}
}

// rel2latlon converts a fractional cell coordinate back to geographic
// longitude/latitude/depth (reference's rel2latlon).
func rel2latlon(rx, ry, rzl, cs, sn, dx, dy, dzl, bx, by, bz float64) (lon, lat, dep float64) {
	tx := rx * dx / deg2m
	ty := ry * dy / deg2m
	dlon := (tx*cs - ty*sn) / math.Cos(by*math.Pi/180)
	dlat := tx*sn + ty*cs
	return dlon + bx, dlat + by, bz + dzl*rzl
}

// stepEvent identifies which event ends a single analytic sub-step:
// crossing one of the six cell faces, or simply reaching the requested
// stop time tf. analyticalStep maps each face event to the corresponding
// move (MoveLeft..MoveUp or a vertical shift).
type stepEvent int

const (
	eventXLeft stepEvent = iota
	eventXRight
	eventYDown
	eventYUp
	eventZDeeper
	eventZShallower
	eventStop
)

// analyticalStep advances the particle along its current linearized
// velocity field until it either reaches tf or crosses a cell face,
// whichever comes first (reference's analytical_step, specialized to a
// single particle instead of a masked batch).
func (p *Particle) analyticalStep(tf float64) {
	xs := [3]float64{p.Rx, p.Ry, p.Rzl - 0.5}
	us := [3]float64{p.U, p.V, p.W}
	dus := [3]float64{p.Du, p.Dv, p.Dw}

	type candidate struct {
		t     float64
		event stepEvent
	}
	var cands []candidate
	for i := 0; i < 3; i++ {
		tl, tr := stationaryTime(us[i], dus[i], xs[i])
		var evL, evR stepEvent
		switch i {
		case 0:
			evL, evR = eventXLeft, eventXRight
		case 1:
			evL, evR = eventYDown, eventYUp
		default:
			evL, evR = eventZDeeper, eventZShallower
		}
		cands = append(cands, candidate{tl, evL}, candidate{tr, evR})
	}
	cands = append(cands, candidate{tf, eventStop})

	sign := 1.0
	if tf < 0 {
		sign = -1.0
	}
	best := math.Inf(1)
	bestEvent := eventStop
	bestT := tf
	for _, c := range cands {
		t := c.t * sign
		if math.IsNaN(t) || t <= 0 {
			continue
		}
		if t < best {
			best = t
			bestEvent = c.event
			bestT = c.t
		}
	}
	if math.IsInf(best, 1) {
		bestT = tf
		bestEvent = eventStop
	}

	p.T += bestT
	newRx := stationary(bestT, us[0], dus[0], xs[0])
	newRy := stationary(bestT, us[1], dus[1], xs[1])
	newRzl := stationary(bestT, us[2], dus[2], xs[2]) + 0.5
	p.Rx, p.Ry, p.Rzl = newRx, newRy, newRzl

	p.Lon, p.Lat, p.Dep = rel2latlon(p.Rx, p.Ry, p.Rzl, p.Cs, p.Sn, p.Dx, p.Dy, p.Dzl, p.Bx, p.By, p.Bz)

	topo := p.Data.Topology()
	switch bestEvent {
	case eventXLeft:
		p.Cell = topo.IndMoves(p.Cell, []Move{MoveLeft})
	case eventXRight:
		p.Cell = topo.IndMoves(p.Cell, []Move{MoveRight})
	case eventYDown:
		p.Cell = topo.IndMoves(p.Cell, []Move{MoveDown})
	case eventYUp:
		p.Cell = topo.IndMoves(p.Cell, []Move{MoveUp})
	case eventZDeeper:
		p.Izl++
	case eventZShallower:
		p.Izl--
	}
}

// Advect steps the particle forward (or backward, if t1 < p.T) until it
// reaches t1, resolving one cell-crossing event at a time so the
// velocity field is always re-sampled in the cell the particle is
// actually in (reference's to_next_stop). It gives up after
// maxAdvectIterations sub-steps rather than looping forever on a
// degenerate stagnation point; non-convergence is logged and the
// particle is left at whatever time it actually reached, not forced to
// t1 (ErrStepperNonConvergence is never returned to the caller, per the
// reference's own "give up and keep the current state" behavior).
func (p *Particle) Advect(t1 float64) error {
	const tol = 1.0
	for i := 0; i < maxAdvectIterations; i++ {
		tf := t1 - p.T
		if math.Abs(tf) < tol {
			p.T = t1
			return nil
		}
		if err := p.updateUVW(); err != nil {
			return err
		}
		p.trim()
		p.analyticalStep(tf)
		if err := p.locate(); err != nil {
			return err
		}
	}
	log.Warnf("%v: stopped after %d iterations at t=%v, target t1=%v", ErrStepperNonConvergence, maxAdvectIterations, p.T, t1)
	return nil
}
