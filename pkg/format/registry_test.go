package format_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

func TestDecryptDispatchesAllVersions(t *testing.T) {
	t.Parallel()

	payload := []byte("the same payload through every format")

	type blobCase struct {
		name string
		blob []byte
		id   format.ResourceID
		key  []byte
	}

	var cases []blobCase

	key := testKey(t)

	blob, id, err := format.EncryptSimple(key, payload, nil)
	if err != nil {
		t.Fatalf("EncryptSimple: %v", err)
	}

	cases = append(cases, blobCase{"simple", blob, id, key})

	key = testKey(t)

	blob, id, err = format.EncryptChunked(key, payload, testChunkCapacity)
	if err != nil {
		t.Fatalf("EncryptChunked: %v", err)
	}

	cases = append(cases, blobCase{"chunked", blob, id, key})

	key = testKey(t)

	blob, id, err = format.EncryptPaddedChunked(key, payload, testChunkCapacity, padding.Auto())
	if err != nil {
		t.Fatalf("EncryptPaddedChunked: %v", err)
	}

	cases = append(cases, blobCase{"padded", blob, id, key})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var lookedUp format.ResourceID

			lookup := func(id format.ResourceID) ([]byte, error) {
				lookedUp = id

				return tc.key, nil
			}

			clear, err := format.Decrypt(lookup, tc.blob)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}

			if !bytes.Equal(clear, payload) {
				t.Error("round trip mismatch")
			}

			if lookedUp != tc.id {
				t.Errorf("lookup received %s, want %s", lookedUp, tc.id)
			}
		})
	}
}

func TestDecryptUnknownVersion(t *testing.T) {
	t.Parallel()

	lookup := format.FixedKey(testKey(t))

	for _, blob := range [][]byte{
		{0x05},       // unregistered version
		{0x07, 0x01}, // unregistered version with trailing data
		{0x80},       // malformed varint: continuation bit with no next byte
		{},
	} {
		if _, err := format.Decrypt(lookup, blob); !errors.Is(err, format.ErrInvalidArgument) {
			t.Errorf("Decrypt(%v) = %v, want ErrInvalidArgument", blob, err)
		}
	}
}

func TestDecryptLookupFailure(t *testing.T) {
	t.Parallel()

	blob, _, err := format.EncryptChunked(testKey(t), []byte("payload"), testChunkCapacity)
	if err != nil {
		t.Fatalf("EncryptChunked: %v", err)
	}

	lookupErr := errors.New("access denied")

	_, err = format.Decrypt(func(format.ResourceID) ([]byte, error) {
		return nil, lookupErr
	}, blob)

	if !errors.Is(err, lookupErr) {
		t.Errorf("Decrypt = %v, want the lookup error", err)
	}
}

func TestRegisteredVersions(t *testing.T) {
	t.Parallel()

	for _, version := range []format.Version{format.VersionSimple, format.VersionChunked, format.VersionPaddedChunked} {
		if !format.Registered(version) {
			t.Errorf("%s not registered", version)
		}
	}

	for _, version := range []format.Version{0, 1, 2, 5, 6, 7, 9} {
		if format.Registered(version) {
			t.Errorf("version %d unexpectedly registered", version)
		}
	}
}
