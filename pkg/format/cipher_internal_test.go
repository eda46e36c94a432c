package format

import (
	"bytes"
	"errors"
	"testing"
)

func TestChunkNonceDeterministic(t *testing.T) {
	t.Parallel()

	id := ResourceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	first, err := chunkNonce(id, 7)
	if err != nil {
		t.Fatalf("chunkNonce: %v", err)
	}

	second, err := chunkNonce(id, 7)
	if err != nil {
		t.Fatalf("chunkNonce: %v", err)
	}

	if first != second {
		t.Error("nonce derivation is not deterministic")
	}

	other, err := chunkNonce(id, 8)
	if err != nil {
		t.Fatalf("chunkNonce: %v", err)
	}

	if first == other {
		t.Error("different indices derived the same nonce")
	}

	otherID := id
	otherID[0] ^= 0xff

	crossed, err := chunkNonce(otherID, 7)
	if err != nil {
		t.Fatalf("chunkNonce: %v", err)
	}

	if first == crossed {
		t.Error("different resource ids derived the same nonce")
	}
}

func TestChunkCipherIndexBinding(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte{0x11}, KeySize)

	id, err := NewResourceID()
	if err != nil {
		t.Fatalf("NewResourceID: %v", err)
	}

	cipher, err := NewChunkCipher(key, id)
	if err != nil {
		t.Fatalf("NewChunkCipher: %v", err)
	}

	sealed, err := cipher.Seal(0, []byte("chunk zero"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	// A chunk replayed at another index must not authenticate.
	if _, err := cipher.Open(1, sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("Open at wrong index = %v, want ErrDecryptionFailed", err)
	}

	clear, err := cipher.Open(0, sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if string(clear) != "chunk zero" {
		t.Errorf("round trip mismatch: %q", clear)
	}
}

func TestChunkedWithFixedIDIsDeterministicLayout(t *testing.T) {
	t.Parallel()

	key := bytes.Repeat([]byte{0x22}, KeySize)
	id := ResourceID{0xaa, 0xbb}
	payload := bytes.Repeat([]byte{0x33}, 100)

	first, err := encryptChunkedWithID(key, id, payload, 64, VersionChunked)
	if err != nil {
		t.Fatalf("encryptChunkedWithID: %v", err)
	}

	second, err := encryptChunkedWithID(key, id, payload, 64, VersionChunked)
	if err != nil {
		t.Fatalf("encryptChunkedWithID: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("same key, id and payload produced different blobs")
	}
}
