package oceaninterp

import "errors"

// Error kinds from the core's error-handling design. A missing base mask
// warns and degrades to all-wet (Grid.MaskAt in mask.go); every error
// below except ErrStepperNonConvergence is returned to the caller wrapped
// with fmt.Errorf("...: %w", ...) for context.
var (
	// ErrDimensionMismatch is returned when a field's backing array rank
	// does not match the rank its FieldKind requires.
	ErrDimensionMismatch = errors.New("oceaninterp: field rank does not match its kind")

	// ErrUnsupportedKernel is returned when a vkernel/tkernel value falls
	// outside {nearest, linear, dz} / {nearest, linear, dt}.
	ErrUnsupportedKernel = errors.New("oceaninterp: unsupported kernel kind")

	// ErrKernelTooSmall is returned at kernel-function construction time
	// when the requested derivative order is >= the per-axis stencil size.
	ErrKernelTooSmall = errors.New("oceaninterp: kernel too small for requested derivative order")

	// ErrVectorKernelMismatch is returned by InterpolateVector when the u
	// and v fields' backing arrays differ in rank. Both components are
	// interpolated with the same horizontal kernel, so their kernel sizes
	// always match.
	ErrVectorKernelMismatch = errors.New("oceaninterp: u and v kernels must have the same size under multi-face topology")

	// ErrMissingVariable is returned when a field name is not registered
	// with an OceData implementation.
	ErrMissingVariable = errors.New("oceaninterp: missing variable")

	// ErrStepperNonConvergence is logged, never returned, when Advect
	// exhausts maxAdvectIterations before reaching its target time; the
	// particle is left at its last resolved position and time instead of
	// failing the caller's batch.
	ErrStepperNonConvergence = errors.New("oceaninterp: advection did not converge")
)
