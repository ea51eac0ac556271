package oceaninterp

import (
	"github.com/sirupsen/logrus"
)

// VKernel selects the vertical stencil kind used when fattening an index
// tensor in Z (or Zl).
type VKernel int

const (
	VNearest VKernel = iota
	VLinear
	VDz
)

// TKernel selects the temporal stencil kind, mirroring VKernel.
type TKernel int

const (
	TNearest TKernel = iota
	TLinear
	TDt
)

// BottomScheme selects whether the 4-D weight composer applies the
// no-flux bottom correction (see GetWeight4D in weight4d.go).
type BottomScheme int

const (
	BottomNoFlux BottomScheme = iota
	BottomNone
)

// GridType names a C-grid staggering location, used for mask lookup.
type GridType int

const (
	GridC GridType = iota
	GridU
	GridV
	GridWvel
)

func (g GridType) String() string {
	switch g {
	case GridC:
		return "C"
	case GridU:
		return "U"
	case GridV:
		return "V"
	case GridWvel:
		return "Wvel"
	default:
		return "unknown"
	}
}

// Config is the programmatic configuration surface of the interpolation
// and advection engine (spec §6). It is a plain struct passed by pointer,
// in the same style as the teacher's VarGridConfig: no file format, no
// flag parsing, because loading configuration from disk or a CLI is out
// of scope.
type Config struct {
	// VKernel is the vertical stencil kind for scalar interpolation.
	VKernel VKernel
	// TKernel is the temporal stencil kind.
	TKernel TKernel
	// BottomScheme selects the no-flux bottom correction.
	BottomScheme BottomScheme
	// GridType selects which staggered mask to use for masking lookups.
	GridType GridType
	// RussianDoll is the ordered list of nested sub-stencils; RussianDoll[0]
	// must be the full stencil and each subsequent doll a strict subset of
	// the previous one, terminating in the nearest-neighbor-only doll.
	RussianDoll []Doll
	// VecTransform rotates interpolated (u,v) pairs to the geographic
	// (east,north) frame using the local axis cosines.
	VecTransform bool
	// MemoryLimit is the byte threshold the particle stepper uses to
	// choose between preloading a velocity time-window into memory and
	// gathering each batch directly from the backing OceData.
	MemoryLimit int64
	// DontFly zeroes the surface W before advection, keeping particles
	// from being launched upward by a spurious surface vertical velocity.
	DontFly bool
}

// DefaultConfig returns a Config using the default 9-point kernel and
// russian doll, linear vertical/temporal kernels, no-flux bottom scheme,
// and vector rotation enabled — the configuration exercised throughout
// this package's own tests and equivalent to the Python package's
// out-of-the-box behavior.
func DefaultConfig() *Config {
	return &Config{
		VKernel:      VLinear,
		TKernel:      TLinear,
		BottomScheme: BottomNoFlux,
		GridType:     GridC,
		RussianDoll:  DefaultRussianDoll(),
		VecTransform: true,
		MemoryLimit:  10e6,
		DontFly:      true,
	}
}

// DebugLevel is the single process-wide knob (spec §6) gating
// informational messages from the mask projector. It is implemented on
// top of logrus, in line with the teacher's (spatialmodel/inmap) use of
// sirupsen/logrus for its ambient logging.
type DebugLevel int

const (
	DebugLow DebugLevel = iota
	DebugMedium
	DebugHigh
	DebugVeryHigh
)

var log = logrus.New()

// debugLevel is the package-wide mutable knob, equivalent to the Python
// package's rcParam['debug_level'] global.
var debugLevel = DebugLow

// SetDebugLevel sets the process-wide debug knob and adjusts the
// package logger's level to match.
func SetDebugLevel(l DebugLevel) {
	debugLevel = l
	switch l {
	case DebugLow:
		log.SetLevel(logrus.WarnLevel)
	case DebugMedium:
		log.SetLevel(logrus.InfoLevel)
	case DebugHigh, DebugVeryHigh:
		log.SetLevel(logrus.DebugLevel)
	}
}

func init() {
	SetDebugLevel(DebugLow)
}
