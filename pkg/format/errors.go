package format

import "errors"

var (
	// ErrInvalidArgument is returned for malformed or truncated input that
	// can be rejected before any cryptographic operation: short buffers,
	// malformed varints, unknown versions, bad chunk capacities.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecryptionFailed is returned when AEAD authentication fails,
	// whether from corrupted ciphertext, a wrong key, or corrupted padding.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInternal is returned on invariant violations that indicate a bug
	// rather than bad input.
	ErrInternal = errors.New("internal error")
)
