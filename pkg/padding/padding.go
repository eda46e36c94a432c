// Package padding implements length-hiding padding: padme bucketing of
// clear sizes and marker-based padding of plaintext buffers.
package padding

import (
	"fmt"
	"math/bits"
)

// Marker separates the plaintext from the zero fill in a padded buffer.
const Marker = 0x80

// MinPaddedSize is the smallest padded clear size; every payload shorter
// than this lands in the same bucket.
const MinPaddedSize = 10

// Padme rounds length up into an exponentially spaced bucket, zeroing the
// low bits so that only O(log length) bits of the true length leak.
// It is monotonic: l1 <= l2 implies Padme(l1) <= Padme(l2).
func Padme(length uint64) uint64 {
	if length < MinPaddedSize {
		return MinPaddedSize
	}

	e := bits.Len64(length) - 1

	s := bits.Len64(uint64(e))

	lastBits := e - s

	mask := uint64(1)<<lastBits - 1

	return (length + mask) &^ mask
}

// Pad extends data to the spec's target size: a single marker byte
// followed by zero fill. With an Off spec the input is returned unchanged.
func Pad(data []byte, spec Spec) []byte {
	if !spec.Enabled() {
		return data
	}

	target := spec.PaddedSize(uint64(len(data)))

	padded := make([]byte, target)
	copy(padded, data)
	padded[len(data)] = Marker

	return padded
}

// Unpad strips the marker byte and trailing zero fill from a padded buffer.
// It scans backward from the end: any run of zeros must be preceded by the
// marker, otherwise the padding is malformed.
func Unpad(padded []byte) ([]byte, error) {
	i := len(padded)

	for i > 0 && padded[i-1] == 0 {
		i--
	}

	if i == 0 || padded[i-1] != Marker {
		return nil, fmt.Errorf("%w: missing padding marker", ErrInvalidPadding)
	}

	return padded[:i-1], nil
}
