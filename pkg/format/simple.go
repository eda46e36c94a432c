package format

import (
	"fmt"
)

// SimpleOverhead is the size a v3 blob adds over its plaintext: the version
// varint plus the trailing tag.
const SimpleOverhead = 1 + TagSize

// EncryptSimple seals an in-memory plaintext into a complete v3 blob.
//
// The nonce is all zeros, which is safe only under the engine's key
// contract: one key is never reused for a second resource. The resource
// identifier is the trailing authentication tag of the sealed data, so it
// costs no extra header bytes but is only known once sealing is done.
func EncryptSimple(key, plaintext, aad []byte) ([]byte, ResourceID, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, ResourceID{}, err
	}

	var nonce [NonceSize]byte

	blob := encodeVersion(make([]byte, 0, SimpleOverhead+len(plaintext)), VersionSimple)
	blob = aead.Seal(blob, nonce[:], plaintext, aad)

	return blob, simpleResourceID(blob[1:]), nil
}

// DecryptSimple opens a complete v3 blob.
func DecryptSimple(key, blob, aad []byte) ([]byte, error) {
	version, body, err := DecodeVersion(blob)
	if err != nil {
		return nil, err
	}

	if version != VersionSimple {
		return nil, fmt.Errorf("%w: expected %s blob, got %s", ErrInvalidArgument, VersionSimple, version)
	}

	return decryptSimpleBody(key, body, aad)
}

// decryptSimpleBody opens the sealed data following the version varint.
func decryptSimpleBody(key, body, aad []byte) ([]byte, error) {
	if len(body) < TagSize {
		return nil, fmt.Errorf("%w: sealed data shorter than its tag", ErrInvalidArgument)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte

	plaintext, err := aead.Open(nil, nonce[:], body, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: authentication failed", ErrDecryptionFailed)
	}

	return plaintext, nil
}

// simpleResourceID reads the identifier from the trailing tag of the sealed
// data. The caller guarantees len(body) >= TagSize.
func simpleResourceID(body []byte) ResourceID {
	var id ResourceID

	copy(id[:], body[len(body)-TagSize:])

	return id
}
