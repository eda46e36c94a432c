package format

import (
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// TagSize is the AEAD authentication tag length. It equals
	// ResourceIDSize: the simple format reuses the trailing tag as the
	// resource identifier.
	TagSize = chacha20poly1305.Overhead
	// NonceSize is the XChaCha20-Poly1305 nonce length.
	NonceSize = chacha20poly1305.NonceSizeX
)

// newAEAD builds the XChaCha20-Poly1305 primitive shared by all formats.
func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", ErrInvalidArgument, KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %v", ErrInternal, err)
	}

	return aead, nil
}

// chunkNonce derives the nonce for one chunk from the resource identifier
// and the chunk index. Nonces are never stored: for a fixed key the pair
// (resourceId, index) is unique, so derived nonces never repeat.
func chunkNonce(id ResourceID, index uint64) ([NonceSize]byte, error) {
	var nonce [NonceSize]byte

	hash, err := blake2b.New(NonceSize, nil)
	if err != nil {
		return nonce, fmt.Errorf("%w: deriving chunk nonce: %v", ErrInternal, err)
	}

	var indexBytes [8]byte

	binary.LittleEndian.PutUint64(indexBytes[:], index)

	hash.Write(id[:])
	hash.Write(indexBytes[:])

	copy(nonce[:], hash.Sum(nil))

	return nonce, nil
}

// ChunkCipher seals and opens the chunks of one resource. It carries the
// AEAD primitive and the resource identifier the nonces derive from.
type ChunkCipher struct {
	aead cipher.AEAD
	id   ResourceID
}

// NewChunkCipher binds a symmetric key to a resource identifier.
func NewChunkCipher(key []byte, id ResourceID) (*ChunkCipher, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	return &ChunkCipher{aead: aead, id: id}, nil
}

// Seal encrypts one chunk of clear bytes at the given index. The output is
// len(clear)+TagSize bytes.
func (c *ChunkCipher) Seal(index uint64, clear []byte) ([]byte, error) {
	nonce, err := chunkNonce(c.id, index)
	if err != nil {
		return nil, err
	}

	return c.aead.Seal(nil, nonce[:], clear, nil), nil
}

// Open authenticates and decrypts one chunk. Authentication failure is
// reported as ErrDecryptionFailed and must abort the whole stream.
func (c *ChunkCipher) Open(index uint64, encrypted []byte) ([]byte, error) {
	if len(encrypted) < TagSize {
		return nil, fmt.Errorf("%w: chunk %d shorter than its tag", ErrDecryptionFailed, index)
	}

	nonce, err := chunkNonce(c.id, index)
	if err != nil {
		return nil, err
	}

	clear, err := c.aead.Open(nil, nonce[:], encrypted, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk %d: authentication failed", ErrDecryptionFailed, index)
	}

	return clear, nil
}
