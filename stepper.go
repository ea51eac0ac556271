package oceaninterp

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Stepper advects a batch of particles through one named (u,v,w)
// velocity triplet. NewStepper resolves all three fields up front, so a
// missing field fails before any particle has taken a step, and when
// their combined size fits under Cfg.MemoryLimit it also stores their
// Field descriptors in the Stepper (preloadVelocity) and marks it
// preloaded, in the manner of particle.py's self.too_large. Particles
// built by Stepper.NewParticle do not read that stored window: they look
// their fields up by name through OceData on every gather, whether or not
// the Stepper is preloaded. Every field is already a fully resident
// *sparse.DenseArray in this package, so neither path reads from disk.
type Stepper struct {
	Data                 OceData
	Cfg                  *Config
	UName, VName, WName string

	preloaded bool
	window    velocityWindow
}

type velocityWindow struct {
	u, v, w Field
}

// NewStepper resolves the named velocity fields and decides whether their
// combined size fits under cfg.MemoryLimit; if it does, they are
// preloaded immediately.
func NewStepper(data OceData, cfg *Config, uname, vname, wname string) (*Stepper, error) {
	s := &Stepper{Data: data, Cfg: cfg, UName: uname, VName: vname, WName: wname}
	size, err := s.velocitySize()
	if err != nil {
		return nil, err
	}
	if size <= cfg.MemoryLimit {
		if err := s.preloadVelocity(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Stepper) velocitySize() (int64, error) {
	var total int64
	for _, name := range []string{s.UName, s.VName, s.WName} {
		f, err := s.Data.Field(name)
		if err != nil {
			return 0, err
		}
		total += int64(len(f.Data.Elements)) * 8
	}
	return total, nil
}

func (s *Stepper) preloadVelocity() error {
	uf, err := s.Data.Field(s.UName)
	if err != nil {
		return err
	}
	vf, err := s.Data.Field(s.VName)
	if err != nil {
		return err
	}
	wf, err := s.Data.Field(s.WName)
	if err != nil {
		return err
	}
	s.window = velocityWindow{u: uf, v: vf, w: wf}
	s.preloaded = true
	return nil
}

// NewParticle builds a particle using this Stepper's velocity field
// names and configuration.
func (s *Stepper) NewParticle(lon, lat, dep, t float64) (*Particle, error) {
	return NewParticle(s.Data, lon, lat, dep, t, s.UName, s.VName, s.WName, s.Cfg)
}

// AdvectBatch advects every particle in particles to t1 concurrently
// across a fixed goroutine pool (the batch-parallel counterpart to
// RunBatch's query evaluation), returning the error from each particle's
// Advect call in the same order as particles.
func (s *Stepper) AdvectBatch(particles []*Particle, t1 float64) []error {
	errs := make([]error, len(particles))
	if len(particles) == 0 {
		return errs
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(particles) {
		workers = len(particles)
	}
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = particles[i].Advect(t1)
			}
		}()
	}
	for i := range particles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return errs
}

// StableTimestep returns a Courant-Friedrichs-Lewy-limited suggested time
// step for advecting p at its current sampled velocity, the same bound
// SetTimestepCFL computes per grid cell in the teacher's framework.go
// (Cmax/sqrt3 over the fastest normalized velocity component), adapted
// from that function's cell-averaged statistics to a single particle's
// own (u,v,w). It is a diagnostic/scheduling aid for callers batching many
// sub-steps between reporting times; Advect itself does not use it, since
// its closed-form analytic stepper already resolves each cell crossing
// exactly regardless of step size.
func (p *Particle) StableTimestep() float64 {
	return stableTimestep(p.Dx, p.Dy, p.Dzl, p.U, p.V, p.W)
}

func stableTimestep(dx, dy, dzl, u, v, w float64) float64 {
	const cMax = 1.0
	sqrt3 := math.Sqrt(3)
	rates := []float64{
		math.Abs(u) / dx,
		math.Abs(v) / dy,
		math.Abs(w) / dzl,
	}
	maxRate := floats.Max(rates)
	if maxRate == 0 {
		return math.Inf(1)
	}
	return cMax / sqrt3 / maxRate
}
