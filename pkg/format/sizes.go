package format

import (
	"fmt"

	"github.com/idelchi/goseal/pkg/padding"
)

// Size helpers mirror the encode arithmetic exactly, so callers can predict
// encrypted sizes and report progress without touching a key.

// chunkCount is the number of chunks a clear size occupies: all full chunks
// plus the mandatory shorter final chunk.
func chunkCount(clearSize uint64, chunkCapacity uint32) uint64 {
	return clearSize/uint64(chunkCapacity) + 1
}

// EncryptedSimpleSize returns the v3 blob size for a clear size.
func EncryptedSimpleSize(clearSize uint64) uint64 {
	return clearSize + SimpleOverhead
}

// ClearSimpleSize inverts EncryptedSimpleSize.
func ClearSimpleSize(encryptedSize uint64) (uint64, error) {
	if encryptedSize < SimpleOverhead {
		return 0, fmt.Errorf("%w: blob shorter than the simple-format overhead", ErrInvalidArgument)
	}

	return encryptedSize - SimpleOverhead, nil
}

// EncryptedChunkedSize returns the v4 blob size for a clear size: header
// plus the clear bytes plus one tag per chunk.
func EncryptedChunkedSize(clearSize uint64, chunkCapacity uint32) uint64 {
	return HeaderSize + clearSize + chunkCount(clearSize, chunkCapacity)*TagSize
}

// EncryptedPaddedSize returns the v8 blob size for a clear size under the
// given padding spec.
func EncryptedPaddedSize(clearSize uint64, chunkCapacity uint32, spec padding.Spec) uint64 {
	return EncryptedChunkedSize(spec.PaddedSize(clearSize), chunkCapacity)
}

// ClearChunkedSize inverts EncryptedChunkedSize. For a v8 blob it returns
// the padded clear size; the true length is hidden until decryption.
func ClearChunkedSize(encryptedSize uint64, chunkCapacity uint32) (uint64, error) {
	if chunkCapacity == 0 {
		return 0, fmt.Errorf("%w: zero chunk capacity", ErrInvalidArgument)
	}

	if encryptedSize < HeaderSize+TagSize {
		return 0, fmt.Errorf("%w: blob shorter than header and final chunk", ErrInvalidArgument)
	}

	body := encryptedSize - HeaderSize

	sealedLen := uint64(chunkCapacity) + TagSize

	full := body / sealedLen
	rem := body % sealedLen

	if rem == 0 {
		return 0, fmt.Errorf("%w: missing final chunk", ErrInvalidArgument)
	}

	if rem < TagSize {
		return 0, fmt.Errorf("%w: truncated final chunk", ErrInvalidArgument)
	}

	return full*uint64(chunkCapacity) + rem - TagSize, nil
}
