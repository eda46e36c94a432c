package stream

import (
	"fmt"
	"io"

	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
)

type encryptorState int

const (
	encryptorCreated encryptorState = iota
	encryptorStreaming
	encryptorEnded
	encryptorFailed
)

// Encryptor turns clear bytes into a chunked-format blob, one chunk at a
// time, holding at most one chunk's clear capacity in memory. Write hands
// every completed chunk to the downstream writer before returning, so a
// slow consumer throttles the producer.
type Encryptor struct {
	w      io.Writer
	cipher *format.ChunkCipher
	header format.Header
	spec   padding.Spec

	buffer    []byte
	index     uint64
	clearSize uint64

	state encryptorState
	err   error
}

// NewEncryptor creates an encryptor writing a complete blob to w. The
// resource identifier is generated here, before any byte of the body, so
// the resource can be shared while encryption is still in progress.
func NewEncryptor(w io.Writer, key []byte, opts ...Option) (*Encryptor, error) {
	cfg := settings{
		chunkCapacity: format.DefaultChunkCapacity,
		spec:          padding.Off(),
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	var (
		id  format.ResourceID
		err error
	)

	if cfg.id != nil {
		id = *cfg.id
	} else if id, err = format.NewResourceID(); err != nil {
		return nil, err
	}

	cipher, err := format.NewChunkCipher(key, id)
	if err != nil {
		return nil, err
	}

	version := format.VersionChunked
	if cfg.spec.Enabled() {
		version = format.VersionPaddedChunked
	}

	return &Encryptor{
		w:      w,
		cipher: cipher,
		header: format.Header{Version: version, ResourceID: id, ChunkCapacity: cfg.chunkCapacity},
		spec:   cfg.spec,
		buffer: make([]byte, 0, cfg.chunkCapacity),
	}, nil
}

// ResourceID is available synchronously from creation.
func (e *Encryptor) ResourceID() format.ResourceID {
	return e.header.ResourceID
}

// Write buffers clear bytes and seals one chunk per full chunk capacity
// accumulated, retaining the remainder.
func (e *Encryptor) Write(data []byte) (int, error) {
	switch e.state {
	case encryptorFailed:
		return 0, e.err
	case encryptorEnded:
		return 0, fmt.Errorf("%w: write after end", format.ErrInvalidArgument)
	case encryptorCreated:
		if err := e.start(); err != nil {
			return 0, err
		}
	case encryptorStreaming:
	}

	e.clearSize += uint64(len(data))

	if err := e.consume(data); err != nil {
		return 0, err
	}

	return len(data), nil
}

// Close pads the tail if the spec requires, seals the remainder as the
// final chunk (emitted even when empty, so a zero-length resource is not
// a special case) and ends the stream.
func (e *Encryptor) Close() error {
	switch e.state {
	case encryptorFailed:
		return e.err
	case encryptorEnded:
		return nil
	case encryptorCreated:
		if err := e.start(); err != nil {
			return err
		}
	case encryptorStreaming:
	}

	if e.spec.Enabled() {
		if err := e.padTail(); err != nil {
			return err
		}
	}

	sealed, err := e.cipher.Seal(e.index, e.buffer)
	if err != nil {
		return e.fail(err)
	}

	if _, err := e.w.Write(sealed); err != nil {
		return e.fail(fmt.Errorf("writing final chunk: %w", err))
	}

	e.buffer = nil
	e.state = encryptorEnded

	return nil
}

// start writes the header and enters the streaming state.
func (e *Encryptor) start() error {
	if _, err := e.w.Write(e.header.Encode()); err != nil {
		return e.fail(fmt.Errorf("writing header: %w", err))
	}

	e.state = encryptorStreaming

	return nil
}

// consume appends data to the accumulator and flushes every full chunk.
func (e *Encryptor) consume(data []byte) error {
	e.buffer = append(e.buffer, data...)

	capacity := int(e.header.ChunkCapacity)

	for len(e.buffer) >= capacity {
		sealed, err := e.cipher.Seal(e.index, e.buffer[:capacity])
		if err != nil {
			return e.fail(err)
		}

		if _, err := e.w.Write(sealed); err != nil {
			return e.fail(fmt.Errorf("writing chunk: %w", err))
		}

		e.index++
		e.buffer = append(e.buffer[:0], e.buffer[capacity:]...)
	}

	return nil
}

// padTail extends the stream with the marker byte and zero fill up to the
// spec's target, fed through the regular chunk loop so padding larger than
// one chunk never accumulates in memory.
func (e *Encryptor) padTail() error {
	target := e.spec.PaddedSize(e.clearSize)

	if err := e.consume([]byte{padding.Marker}); err != nil {
		return err
	}

	remaining := target - e.clearSize - 1

	zeros := make([]byte, min(remaining, uint64(e.header.ChunkCapacity)))

	for remaining > 0 {
		n := min(remaining, uint64(len(zeros)))

		if err := e.consume(zeros[:n]); err != nil {
			return err
		}

		remaining -= n
	}

	return nil
}

// fail latches the error: the stream is unusable afterwards.
func (e *Encryptor) fail(err error) error {
	e.state = encryptorFailed
	e.err = err

	return err
}
