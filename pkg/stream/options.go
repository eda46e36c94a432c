package stream

import (
	"fmt"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

type settings struct {
	chunkCapacity uint32
	spec          padding.Spec
	id            *format.ResourceID
}

// Option configures an Encryptor. Invalid values are rejected at
// construction time, before any bytes are written.
type Option func(*settings) error

// WithChunkCapacity sets the clear capacity of one chunk.
func WithChunkCapacity(capacity uint32) Option {
	return func(s *settings) error {
		if capacity == 0 {
			return fmt.Errorf("%w: zero chunk capacity", format.ErrInvalidArgument)
		}

		s.chunkCapacity = capacity

		return nil
	}
}

// WithPadding sets the padding spec. Anything but Off selects the padded
// chunked format (v8).
func WithPadding(spec padding.Spec) Option {
	return func(s *settings) error {
		s.spec = spec

		return nil
	}
}

// WithPaddingStep is shorthand for WithPadding with a fixed step.
func WithPaddingStep(step int) Option {
	return func(s *settings) error {
		spec, err := padding.Step(step)
		if err != nil {
			return fmt.Errorf("%w: %v", format.ErrInvalidArgument, err)
		}

		s.spec = spec

		return nil
	}
}

// withResourceID pins the resource identifier instead of generating one.
// Unexported: reusing an identifier across resources breaks nonce safety.
func withResourceID(id format.ResourceID) Option {
	return func(s *settings) error {
		s.id = &id

		return nil
	}
}
