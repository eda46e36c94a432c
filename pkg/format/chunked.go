package format

import (
	"encoding/binary"
	"fmt"

	"github.com/idelchi/goseal/pkg/padding"
)

const (
	// HeaderSize is the fixed chunked-format header length: version varint,
	// resource identifier, chunk capacity.
	HeaderSize = 1 + ResourceIDSize + 4

	// DefaultChunkCapacity is the default clear capacity of one chunk.
	DefaultChunkCapacity = 1 << 20
)

// Header is the chunked-format preamble. It is written once before any
// chunk, so a decoder holding only the header already knows the resource
// identifier and can start resolving the key.
type Header struct {
	Version       Version
	ResourceID    ResourceID
	ChunkCapacity uint32
}

// Encode serializes the header: varint version, raw resource identifier,
// little-endian chunk capacity.
func (h Header) Encode() []byte {
	blob := encodeVersion(make([]byte, 0, HeaderSize), h.Version)
	blob = append(blob, h.ResourceID[:]...)
	blob = binary.LittleEndian.AppendUint32(blob, h.ChunkCapacity)

	return blob
}

// ParseHeader reads a chunked-format header and returns the chunk body.
func ParseHeader(blob []byte) (Header, []byte, error) {
	version, rest, err := DecodeVersion(blob)
	if err != nil {
		return Header{}, nil, err
	}

	if !Chunked(version) {
		return Header{}, nil, fmt.Errorf("%w: %s is not a chunked format", ErrInvalidArgument, version)
	}

	if len(rest) < ResourceIDSize+4 {
		return Header{}, nil, fmt.Errorf("%w: truncated chunked header", ErrInvalidArgument)
	}

	header := Header{Version: version}

	copy(header.ResourceID[:], rest[:ResourceIDSize])

	header.ChunkCapacity = binary.LittleEndian.Uint32(rest[ResourceIDSize:])

	if header.ChunkCapacity == 0 {
		return Header{}, nil, fmt.Errorf("%w: zero chunk capacity", ErrInvalidArgument)
	}

	return header, rest[ResourceIDSize+4:], nil
}

// EncryptChunked seals an in-memory plaintext into a complete v4 blob with
// a fresh random resource identifier.
func EncryptChunked(key, plaintext []byte, chunkCapacity uint32) ([]byte, ResourceID, error) {
	id, err := NewResourceID()
	if err != nil {
		return nil, ResourceID{}, err
	}

	blob, err := encryptChunkedWithID(key, id, plaintext, chunkCapacity, VersionChunked)

	return blob, id, err
}

// EncryptPaddedChunked seals a padded plaintext into a complete v8 blob.
// An Off spec degrades to the v4 format: without padding the two layouts
// are byte-identical, so the older version tag is kept.
func EncryptPaddedChunked(key, plaintext []byte, chunkCapacity uint32, spec padding.Spec) ([]byte, ResourceID, error) {
	if !spec.Enabled() {
		return EncryptChunked(key, plaintext, chunkCapacity)
	}

	id, err := NewResourceID()
	if err != nil {
		return nil, ResourceID{}, err
	}

	blob, err := encryptChunkedWithID(key, id, padding.Pad(plaintext, spec), chunkCapacity, VersionPaddedChunked)

	return blob, id, err
}

// encryptChunkedWithID chunks the (already padded) clear bytes under a
// caller-supplied identifier. Every blob ends with a final chunk strictly
// shorter than the chunk capacity, even when that chunk is empty, so the
// decoder can always tell where the stream ends.
func encryptChunkedWithID(key []byte, id ResourceID, clear []byte, chunkCapacity uint32, version Version) ([]byte, error) {
	if chunkCapacity == 0 {
		return nil, fmt.Errorf("%w: zero chunk capacity", ErrInvalidArgument)
	}

	cipher, err := NewChunkCipher(key, id)
	if err != nil {
		return nil, err
	}

	header := Header{Version: version, ResourceID: id, ChunkCapacity: chunkCapacity}

	blob := make([]byte, 0, EncryptedChunkedSize(uint64(len(clear)), chunkCapacity))
	blob = append(blob, header.Encode()...)

	capacity := int(chunkCapacity)

	var index uint64

	for len(clear) >= capacity {
		sealed, err := cipher.Seal(index, clear[:capacity])
		if err != nil {
			return nil, err
		}

		blob = append(blob, sealed...)
		clear = clear[capacity:]
		index++
	}

	sealed, err := cipher.Seal(index, clear)
	if err != nil {
		return nil, err
	}

	return append(blob, sealed...), nil
}

// DecryptChunked opens a complete v4 or v8 blob. The version comes from the
// header; v8 strips padding after reassembly.
func DecryptChunked(key, blob []byte) ([]byte, error) {
	header, body, err := ParseHeader(blob)
	if err != nil {
		return nil, err
	}

	return decryptChunkedBody(key, header, body)
}

func decryptChunkedBody(key []byte, header Header, body []byte) ([]byte, error) {
	cipher, err := NewChunkCipher(key, header.ResourceID)
	if err != nil {
		return nil, err
	}

	sealedLen := int(header.ChunkCapacity) + TagSize

	full := len(body) / sealedLen
	rem := len(body) % sealedLen

	if rem == 0 {
		// The final chunk is always shorter than a full one.
		return nil, fmt.Errorf("%w: missing final chunk", ErrInvalidArgument)
	}

	if rem < TagSize {
		return nil, fmt.Errorf("%w: truncated final chunk", ErrInvalidArgument)
	}

	clear := make([]byte, 0, full*int(header.ChunkCapacity)+rem-TagSize)

	for index := range full {
		chunk, err := cipher.Open(uint64(index), body[index*sealedLen:(index+1)*sealedLen])
		if err != nil {
			return nil, err
		}

		clear = append(clear, chunk...)
	}

	chunk, err := cipher.Open(uint64(full), body[full*sealedLen:])
	if err != nil {
		return nil, err
	}

	clear = append(clear, chunk...)

	if header.Version == VersionPaddedChunked {
		unpadded, err := padding.Unpad(clear)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
		}

		return unpadded, nil
	}

	return clear, nil
}
