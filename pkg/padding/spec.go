package padding

import "fmt"

type mode int

const (
	modeOff mode = iota
	modeAuto
	modeStep
)

// Spec selects a padding strategy. The zero value is Off.
type Spec struct {
	mode mode
	step uint64
}

// Off disables padding.
func Off() Spec { return Spec{mode: modeOff} }

// Auto buckets the clear size with Padme.
func Auto() Spec { return Spec{mode: modeAuto} }

// Step rounds the clear size up to the next multiple of step.
// Steps below 2 are rejected: a step of 1 pads nothing and a step of 0
// or less is meaningless.
func Step(step int) (Spec, error) {
	if step < 2 {
		return Spec{}, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}

	return Spec{mode: modeStep, step: uint64(step)}, nil
}

// Enabled reports whether the spec pads at all.
func (s Spec) Enabled() bool { return s.mode != modeOff }

// PaddedSize returns the padded clear size for the given clear size.
// When padding is enabled the result is always at least clearSize+1,
// leaving room for the marker byte.
func (s Spec) PaddedSize(clearSize uint64) uint64 {
	switch s.mode {
	case modeAuto:
		return Padme(clearSize + 1)
	case modeStep:
		return (clearSize/s.step + 1) * s.step
	default:
		return clearSize
	}
}
