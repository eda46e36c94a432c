package format

import (
	"fmt"
)

// formatSpec describes the static properties of one registered version.
// The table is compile-time constant: the version set is closed, every
// historical decoder stays reachable, and no runtime registration exists.
type formatSpec struct {
	chunked     bool
	minBlobSize int
}

var registry = map[Version]formatSpec{
	VersionSimple:        {chunked: false, minBlobSize: SimpleOverhead},
	VersionChunked:       {chunked: true, minBlobSize: HeaderSize + TagSize},
	VersionPaddedChunked: {chunked: true, minBlobSize: HeaderSize + TagSize},
}

// Registered reports whether a version is part of the closed format set.
func Registered(version Version) bool {
	_, ok := registry[version]

	return ok
}

// Chunked reports whether a version uses the header + chunk layout.
func Chunked(version Version) bool {
	return registry[version].chunked
}

// MinBlobSize is the smallest valid blob size for a version. Shorter
// buffers are rejected before any cryptographic operation.
func MinBlobSize(version Version) int {
	return registry[version].minBlobSize
}

// ExtractResourceID reads the resource identifier of any blob without a
// key: from the trailing tag for the simple format, from the header for the
// chunked ones. The sharing layer uses this to discover which key to fetch.
func ExtractResourceID(blob []byte) (ResourceID, error) {
	version, body, err := DecodeVersion(blob)
	if err != nil {
		return ResourceID{}, err
	}

	if len(blob) < MinBlobSize(version) {
		return ResourceID{}, fmt.Errorf("%w: truncated %s blob", ErrInvalidArgument, version)
	}

	switch version {
	case VersionSimple:
		return simpleResourceID(body), nil
	case VersionChunked, VersionPaddedChunked:
		header, _, err := ParseHeader(blob)
		if err != nil {
			return ResourceID{}, err
		}

		return header.ResourceID, nil
	default:
		return ResourceID{}, fmt.Errorf("%w: version %s registered but not dispatched", ErrInternal, version)
	}
}

// Decrypt opens a blob of any registered version, resolving the key by
// resource identifier through the supplied lookup.
func Decrypt(lookup KeyLookup, blob []byte) ([]byte, error) {
	version, body, err := DecodeVersion(blob)
	if err != nil {
		return nil, err
	}

	if len(blob) < MinBlobSize(version) {
		return nil, fmt.Errorf("%w: truncated %s blob", ErrInvalidArgument, version)
	}

	id, err := ExtractResourceID(blob)
	if err != nil {
		return nil, err
	}

	key, err := lookup(id)
	if err != nil {
		return nil, fmt.Errorf("resolving key for %s: %w", id, err)
	}

	switch version {
	case VersionSimple:
		return decryptSimpleBody(key, body, nil)
	case VersionChunked, VersionPaddedChunked:
		return DecryptChunked(key, blob)
	default:
		return nil, fmt.Errorf("%w: version %s registered but not dispatched", ErrInternal, version)
	}
}
