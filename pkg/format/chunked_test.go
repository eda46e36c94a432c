package format_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

const testChunkCapacity = 256

func randomPayload(t *testing.T, size int) []byte {
	t.Helper()

	payload := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, payload); err != nil {
		t.Fatalf("generating payload: %v", err)
	}

	return payload
}

func TestChunkedRoundTrip(t *testing.T) {
	t.Parallel()

	sizes := []int{
		0,
		1,
		testChunkCapacity - 1,
		testChunkCapacity,
		testChunkCapacity + 1,
		2 * testChunkCapacity,
		3*testChunkCapacity + 7,
	}

	for _, size := range sizes {
		key := testKey(t)
		payload := randomPayload(t, size)

		blob, id, err := format.EncryptChunked(key, payload, testChunkCapacity)
		if err != nil {
			t.Fatalf("size %d: EncryptChunked: %v", size, err)
		}

		if got, want := uint64(len(blob)), format.EncryptedChunkedSize(uint64(size), testChunkCapacity); got != want {
			t.Errorf("size %d: blob size %d, want %d", size, got, want)
		}

		clear, err := format.DecryptChunked(key, blob)
		if err != nil {
			t.Fatalf("size %d: DecryptChunked: %v", size, err)
		}

		if !bytes.Equal(clear, payload) {
			t.Errorf("size %d: round trip mismatch", size)
		}

		extracted, err := format.ExtractResourceID(blob[:format.HeaderSize])
		if err != nil {
			t.Fatalf("size %d: ExtractResourceID from header: %v", size, err)
		}

		if extracted != id {
			t.Errorf("size %d: extracted %s, want %s", size, extracted, id)
		}
	}
}

func TestPaddedChunkedRoundTrip(t *testing.T) {
	t.Parallel()

	step, err := padding.Step(100)
	if err != nil {
		t.Fatalf("Step(100): %v", err)
	}

	specs := map[string]padding.Spec{
		"auto": padding.Auto(),
		"step": step,
	}

	sizes := []int{0, 1, 30, testChunkCapacity, 3*testChunkCapacity + 7}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			for _, size := range sizes {
				key := testKey(t)
				payload := randomPayload(t, size)

				blob, _, err := format.EncryptPaddedChunked(key, payload, testChunkCapacity, spec)
				if err != nil {
					t.Fatalf("size %d: EncryptPaddedChunked: %v", size, err)
				}

				if got, want := uint64(len(blob)), format.EncryptedPaddedSize(uint64(size), testChunkCapacity, spec); got != want {
					t.Errorf("size %d: blob size %d, want %d", size, got, want)
				}

				clear, err := format.DecryptChunked(key, blob)
				if err != nil {
					t.Fatalf("size %d: DecryptChunked: %v", size, err)
				}

				if !bytes.Equal(clear, payload) {
					t.Errorf("size %d: round trip mismatch", size)
				}
			}
		})
	}
}

func TestPaddedChunkedHidesLength(t *testing.T) {
	t.Parallel()

	key := testKey(t)

	// Two nearby lengths land in the same padme bucket and therefore
	// produce blobs of identical size.
	first, _, err := format.EncryptPaddedChunked(key, randomPayload(t, 1000), testChunkCapacity, padding.Auto())
	if err != nil {
		t.Fatalf("EncryptPaddedChunked: %v", err)
	}

	second, _, err := format.EncryptPaddedChunked(testKey(t), randomPayload(t, 1020), testChunkCapacity, padding.Auto())
	if err != nil {
		t.Fatalf("EncryptPaddedChunked: %v", err)
	}

	if len(first) != len(second) {
		t.Errorf("blob sizes differ: %d vs %d", len(first), len(second))
	}
}

func TestPaddedOffDegradesToChunked(t *testing.T) {
	t.Parallel()

	key := testKey(t)

	blob, _, err := format.EncryptPaddedChunked(key, []byte("payload"), testChunkCapacity, padding.Off())
	if err != nil {
		t.Fatalf("EncryptPaddedChunked: %v", err)
	}

	version, _, err := format.DecodeVersion(blob)
	if err != nil {
		t.Fatalf("DecodeVersion: %v", err)
	}

	if version != format.VersionChunked {
		t.Errorf("version %s, want %s", version, format.VersionChunked)
	}
}

func TestChunkedSizeArithmetic(t *testing.T) {
	t.Parallel()

	for _, size := range []uint64{0, 1, 255, 256, 257, 1 << 14, 1<<20 + 3} {
		encrypted := format.EncryptedChunkedSize(size, testChunkCapacity)

		clear, err := format.ClearChunkedSize(encrypted, testChunkCapacity)
		if err != nil {
			t.Fatalf("size %d: ClearChunkedSize: %v", size, err)
		}

		if clear != size {
			t.Errorf("size %d: inverse arithmetic gave %d", size, clear)
		}
	}
}

func TestPaddedSizeArithmetic(t *testing.T) {
	t.Parallel()

	spec := padding.Auto()

	for _, size := range []uint64{0, 1, 999, 1 << 14} {
		encrypted := format.EncryptedPaddedSize(size, testChunkCapacity, spec)

		clear, err := format.ClearChunkedSize(encrypted, testChunkCapacity)
		if err != nil {
			t.Fatalf("size %d: ClearChunkedSize: %v", size, err)
		}

		if want := spec.PaddedSize(size); clear != want {
			t.Errorf("size %d: clear size %d, want padded size %d", size, clear, want)
		}
	}
}

func TestChunkedTamperDetection(t *testing.T) {
	t.Parallel()

	key := testKey(t)
	payload := randomPayload(t, 2*testChunkCapacity+10)

	blob, _, err := format.EncryptChunked(key, payload, testChunkCapacity)
	if err != nil {
		t.Fatalf("EncryptChunked: %v", err)
	}

	// Flip one byte in every chunk, including the final one.
	for _, offset := range []int{
		format.HeaderSize,
		format.HeaderSize + testChunkCapacity + format.TagSize + 3,
		len(blob) - 1,
	} {
		corrupted := bytes.Clone(blob)
		corrupted[offset] ^= 0x80

		if _, err := format.DecryptChunked(key, corrupted); !errors.Is(err, format.ErrDecryptionFailed) {
			t.Errorf("offset %d: DecryptChunked = %v, want ErrDecryptionFailed", offset, err)
		}
	}
}

func TestChunkedTruncationRejection(t *testing.T) {
	t.Parallel()

	key := testKey(t)

	blob, _, err := format.EncryptChunked(key, []byte("short"), testChunkCapacity)
	if err != nil {
		t.Fatalf("EncryptChunked: %v", err)
	}

	for cut := range format.HeaderSize + format.TagSize {
		if _, err := format.DecryptChunked(key, blob[:cut]); !errors.Is(err, format.ErrInvalidArgument) {
			t.Errorf("prefix %d: DecryptChunked = %v, want ErrInvalidArgument", cut, err)
		}
	}
}

func TestChunkedZeroCapacityRejected(t *testing.T) {
	t.Parallel()

	if _, _, err := format.EncryptChunked(testKey(t), []byte("p"), 0); !errors.Is(err, format.ErrInvalidArgument) {
		t.Errorf("EncryptChunked with zero capacity = %v, want ErrInvalidArgument", err)
	}
}
