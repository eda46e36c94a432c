package format

import (
	"encoding/binary"
	"fmt"
)

// Version tags every encrypted blob. The set is closed: historical versions
// stay decodable forever and never change layout.
type Version uint64

const (
	// VersionSimple is the one-shot in-memory format (v3).
	VersionSimple Version = 3
	// VersionChunked is the streamed fixed-capacity chunk format (v4).
	VersionChunked Version = 4
	// VersionPaddedChunked is the chunked format over padded plaintext (v8).
	VersionPaddedChunked Version = 8
)

func (v Version) String() string {
	return fmt.Sprintf("v%d", uint64(v))
}

// encodeVersion prepends the LEB128 varint encoding of v to dst.
func encodeVersion(dst []byte, v Version) []byte {
	var buf [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(buf[:], uint64(v))

	return append(dst, buf[:n]...)
}

// DecodeVersion reads the leading version varint and returns the remainder
// of the buffer. The version is validated against the registered set.
func DecodeVersion(blob []byte) (Version, []byte, error) {
	if len(blob) == 0 {
		return 0, nil, fmt.Errorf("%w: empty buffer", ErrInvalidArgument)
	}

	raw, n := binary.Uvarint(blob)
	if n <= 0 {
		return 0, nil, fmt.Errorf("%w: malformed version varint", ErrInvalidArgument)
	}

	version := Version(raw)

	if !Registered(version) {
		return 0, nil, fmt.Errorf("%w: unknown format version %d", ErrInvalidArgument, raw)
	}

	return version, blob[n:], nil
}
