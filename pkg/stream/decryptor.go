package stream

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

type decryptorState int

const (
	decryptorCreated decryptorState = iota
	decryptorAwaitingHeader
	decryptorStreaming
	decryptorEnded
	decryptorFailed
)

// Decryptor turns a chunked-format blob back into clear bytes. Input may
// arrive split at arbitrary byte boundaries; each chunk is authenticated
// and emitted downstream as soon as enough bytes have accumulated. An
// authentication failure is fatal for the whole stream.
type Decryptor struct {
	w      io.Writer
	lookup format.KeyLookup
	cipher *format.ChunkCipher
	header format.Header

	buffer  []byte
	pending []byte
	index   uint64

	state decryptorState
	err   error
}

// NewDecryptor creates a decryptor emitting clear bytes to w. The key is
// resolved through lookup once the header's resource identifier is parsed.
func NewDecryptor(w io.Writer, lookup format.KeyLookup) *Decryptor {
	return &Decryptor{w: w, lookup: lookup}
}

// NewDecryptorWithKey creates a decryptor with a pre-resolved key.
func NewDecryptorWithKey(w io.Writer, key []byte) *Decryptor {
	return NewDecryptor(w, format.FixedKey(key))
}

// ResourceID returns the identifier parsed from the header. It is the zero
// value until the header has been received.
func (d *Decryptor) ResourceID() format.ResourceID {
	return d.header.ResourceID
}

// Write feeds ciphertext bytes. The header is parsed exactly once; an
// unknown or non-chunked version fails fast before any cryptographic
// operation.
func (d *Decryptor) Write(data []byte) (int, error) {
	switch d.state {
	case decryptorFailed:
		return 0, d.err
	case decryptorEnded:
		return 0, fmt.Errorf("%w: write after end", format.ErrInvalidArgument)
	case decryptorCreated:
		d.state = decryptorAwaitingHeader
	case decryptorAwaitingHeader, decryptorStreaming:
	}

	d.buffer = append(d.buffer, data...)

	if d.state == decryptorAwaitingHeader {
		ok, err := d.parseHeader()
		if err != nil {
			return 0, err
		}

		if !ok {
			return len(data), nil
		}
	}

	if err := d.drain(); err != nil {
		return 0, err
	}

	return len(data), nil
}

// Close marks the end of input: the remaining buffer is authenticated as
// the final chunk and, for the padded format, the padding is stripped.
func (d *Decryptor) Close() error {
	switch d.state {
	case decryptorFailed:
		return d.err
	case decryptorEnded:
		return nil
	case decryptorCreated, decryptorAwaitingHeader:
		return d.fail(fmt.Errorf("%w: stream ended before a complete header", format.ErrInvalidArgument))
	case decryptorStreaming:
	}

	if len(d.buffer) < format.TagSize {
		return d.fail(fmt.Errorf("%w: truncated final chunk", format.ErrInvalidArgument))
	}

	clear, err := d.cipher.Open(d.index, d.buffer)
	if err != nil {
		return d.fail(err)
	}

	if err := d.emit(clear); err != nil {
		return err
	}

	if d.header.Version == format.VersionPaddedChunked {
		if err := d.finishUnpad(); err != nil {
			return err
		}
	}

	d.buffer = nil
	d.state = decryptorEnded

	return nil
}

// parseHeader attempts to parse the header from the accumulated buffer.
// It returns false when more bytes are needed. The version is checked as
// soon as its varint is readable, so garbage fails before a full header
// ever accumulates.
func (d *Decryptor) parseHeader() (bool, error) {
	version, n := binary.Uvarint(d.buffer)
	if n == 0 {
		if len(d.buffer) >= binary.MaxVarintLen64 {
			return false, d.fail(fmt.Errorf("%w: malformed version varint", format.ErrInvalidArgument))
		}

		return false, nil
	}

	if n < 0 || !format.Registered(format.Version(version)) {
		return false, d.fail(fmt.Errorf("%w: unknown format version %d", format.ErrInvalidArgument, version))
	}

	if !format.Chunked(format.Version(version)) {
		return false, d.fail(fmt.Errorf("%w: %s is not a streamable format", format.ErrInvalidArgument, format.Version(version)))
	}

	if len(d.buffer) < format.HeaderSize {
		return false, nil
	}

	header, body, err := format.ParseHeader(d.buffer)
	if err != nil {
		return false, d.fail(err)
	}

	key, err := d.lookup(header.ResourceID)
	if err != nil {
		return false, d.fail(fmt.Errorf("resolving key for %s: %w", header.ResourceID, err))
	}

	cipher, err := format.NewChunkCipher(key, header.ResourceID)
	if err != nil {
		return false, d.fail(err)
	}

	d.header = header
	d.cipher = cipher
	d.buffer = append(d.buffer[:0], body...)
	d.state = decryptorStreaming

	return true, nil
}

// drain opens and emits every complete chunk in the buffer. A chunk of
// exactly the sealed length is never the final one (the final chunk is
// always strictly shorter), so it is safe to process immediately.
func (d *Decryptor) drain() error {
	sealedLen := int(d.header.ChunkCapacity) + format.TagSize

	for len(d.buffer) >= sealedLen {
		clear, err := d.cipher.Open(d.index, d.buffer[:sealedLen])
		if err != nil {
			return d.fail(err)
		}

		if err := d.emit(clear); err != nil {
			return err
		}

		d.index++
		d.buffer = append(d.buffer[:0], d.buffer[sealedLen:]...)
	}

	return nil
}

// emit forwards clear bytes downstream. For the padded format a candidate
// padding suffix (trailing zeros and the marker ahead of them) is held
// back until later bytes prove it is real data.
func (d *Decryptor) emit(clear []byte) error {
	if d.header.Version != format.VersionPaddedChunked {
		if _, err := d.w.Write(clear); err != nil {
			return d.fail(fmt.Errorf("writing plaintext: %w", err))
		}

		return nil
	}

	combined := append(d.pending, clear...)

	cut := len(combined)

	for cut > 0 && combined[cut-1] == 0 {
		cut--
	}

	if cut > 0 && combined[cut-1] == padding.Marker {
		cut--
	}

	if cut > 0 {
		if _, err := d.w.Write(combined[:cut]); err != nil {
			return d.fail(fmt.Errorf("writing plaintext: %w", err))
		}
	}

	d.pending = append(d.pending[:0], combined[cut:]...)

	return nil
}

// finishUnpad validates the held-back suffix as real padding: a marker
// byte followed by nothing but zero fill.
func (d *Decryptor) finishUnpad() error {
	if len(d.pending) == 0 || d.pending[0] != padding.Marker {
		return d.fail(fmt.Errorf("%w: missing padding marker", format.ErrDecryptionFailed))
	}

	d.pending = nil

	return nil
}

// fail latches the error: no further writes are processed.
func (d *Decryptor) fail(err error) error {
	d.state = decryptorFailed
	d.err = err

	return err
}
