package padding

import "errors"

// The package carries its own sentinels because it sits below the format
// layer and cannot import its taxonomy. Callers at the engine boundary
// translate: an ErrInvalidStep becomes an invalid-argument error there
// (stream.WithPaddingStep, the padding CLI flag) and an ErrInvalidPadding
// surfaces as a decryption failure (the padded formats authenticate their
// fill).
var (
	// ErrInvalidStep is returned when a fixed padding step is smaller than 2.
	ErrInvalidStep = errors.New("invalid padding step")
	// ErrInvalidPadding is returned when a padded buffer has no marker byte
	// ahead of its trailing zero fill.
	ErrInvalidPadding = errors.New("invalid padding")
)
