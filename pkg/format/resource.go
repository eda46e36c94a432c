package format

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// ResourceIDSize is the byte length of a resource identifier.
	ResourceIDSize = 16
	// KeySize is the byte length of a symmetric resource key.
	KeySize = 32
)

// ResourceID is the stable opaque identifier of one encrypted resource.
// A symmetric key is bound to exactly one ResourceID for its lifetime.
type ResourceID [ResourceIDSize]byte

func (id ResourceID) String() string {
	return hex.EncodeToString(id[:])
}

// ParseResourceID decodes a hex-encoded resource identifier.
func ParseResourceID(s string) (ResourceID, error) {
	var id ResourceID

	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: resource id is not hex: %v", ErrInvalidArgument, err)
	}

	if len(raw) != ResourceIDSize {
		return id, fmt.Errorf("%w: resource id must be %d bytes, got %d", ErrInvalidArgument, ResourceIDSize, len(raw))
	}

	copy(id[:], raw)

	return id, nil
}

// NewResourceID generates a fresh random resource identifier, used by the
// chunked formats where the identifier is stored in the header.
func NewResourceID() (ResourceID, error) {
	var id ResourceID

	if _, err := io.ReadFull(rand.Reader, id[:]); err != nil {
		return id, fmt.Errorf("%w: generating resource id: %v", ErrInternal, err)
	}

	return id, nil
}

// NewKey generates a fresh random symmetric key.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)

	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: generating key: %v", ErrInternal, err)
	}

	return key, nil
}

// KeyLookup resolves the symmetric key for a resource identifier. It is the
// collaborator boundary: the surrounding layer decides who may obtain a key.
type KeyLookup func(ResourceID) ([]byte, error)

// FixedKey returns a KeyLookup that always yields the same key, for callers
// that already resolved it out of band.
func FixedKey(key []byte) KeyLookup {
	return func(ResourceID) ([]byte, error) {
		return key, nil
	}
}
