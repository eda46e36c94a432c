package logic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/fileutil"
	"github.com/idelchi/goseal/internal/keyring"
	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/padding"
	"github.com/idelchi/goseal/pkg/stream"
)

// result is the outcome of processing a single file.
type result struct {
	input      string
	output     string
	resourceID string
	outputSize int64
	err        error
}

// processor runs the per-file encrypt/decrypt pipeline.
type processor struct {
	cfg      *config.Config
	fixedKey []byte
	ring     *keyring.Keyring
	spec     padding.Spec
	results  chan result
}

func newProcessor(cfg *config.Config, fixedKey []byte, ring *keyring.Keyring) (*processor, error) {
	spec, err := cfg.PaddingSpec()
	if err != nil {
		return nil, err
	}

	return &processor{
		cfg:      cfg,
		fixedKey: fixedKey,
		ring:     ring,
		spec:     spec,
		results:  make(chan result, len(cfg.Files)),
	}, nil
}

// run processes all configured files in parallel, draining results through
// a printer goroutine.
func (p *processor) run() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for res := range p.results {
			if res.err != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", res.input, res.err)

				continue
			}

			processed++

			totalSize += res.outputSize

			if !p.cfg.Quiet {
				if res.resourceID != "" {
					fmt.Printf("Processed %q -> %q (resource %s)\n", res.input, res.output, res.resourceID) //nolint:forbidigo
				} else {
					fmt.Printf("Processed %q -> %q\n", res.input, res.output) //nolint:forbidigo
				}
			}

			if p.cfg.Delete {
				if err := os.Remove(res.input); err != nil {
					fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", res.input, err)
				} else if !p.cfg.Quiet {
					fmt.Printf("Deleted %q\n", res.input) //nolint:forbidigo
				}
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := p.outputPath(file)

			res := p.processFile(file, outPath)
			p.results <- res

			return res.err
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	return processed, errored, totalSize, err
}

// processFile encrypts or decrypts one file through a temp file and an
// atomic rename.
func (p *processor) processFile(filename, outPath string) result {
	res := result{input: filename, output: outPath}

	res.outputSize, res.resourceID, res.err = p.transformFile(filename, outPath)

	return res
}

func (p *processor) transformFile(filename, outPath string) (size int64, resourceID string, err error) {
	tc, err := fileutil.NewTempContext(filename, outPath)
	if err != nil {
		return 0, "", fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	inFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return 0, "", fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	if p.cfg.Decrypt {
		err = p.decryptFile(inFile, tc.TmpFile)
	} else {
		resourceID, err = p.encryptFile(inFile, tc.TmpFile, tc.SrcInfo.Size())
	}

	if err != nil {
		return 0, "", err
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, "", fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tc.TmpName, outPath); err != nil {
		return 0, "", fmt.Errorf("renaming output file: %w", err)
	}

	size, err = fileutil.FinalizeOutput(outPath)
	if err != nil {
		return 0, "", fmt.Errorf("finalizing output: %w", err)
	}

	return size, resourceID, nil
}

// encryptFile picks the format: small unpadded payloads go through the
// one-shot simple format, everything else streams through the chunked one.
func (p *processor) encryptFile(reader io.Reader, writer io.Writer, size int64) (string, error) {
	resourceKey, err := p.encryptionKey()
	if err != nil {
		return "", err
	}

	if !p.cfg.Chunked && !p.spec.Enabled() && size <= int64(p.cfg.ChunkSize) {
		clear, err := io.ReadAll(reader)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}

		blob, id, err := format.EncryptSimple(resourceKey, clear, nil)
		if err != nil {
			return "", err
		}

		if _, err := writer.Write(blob); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}

		p.record(id, resourceKey)

		return id.String(), nil
	}

	encryptor, err := stream.NewEncryptor(writer, resourceKey,
		stream.WithChunkCapacity(p.cfg.ChunkSize),
		stream.WithPadding(p.spec),
	)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(encryptor, reader); err != nil {
		return "", fmt.Errorf("encrypting: %w", err)
	}

	if err := encryptor.Close(); err != nil {
		return "", fmt.Errorf("finalizing encryption: %w", err)
	}

	p.record(encryptor.ResourceID(), resourceKey)

	return encryptor.ResourceID().String(), nil
}

// encryptionKey returns the key for one new resource: the fixed key when
// given, otherwise a fresh key destined for the keyring. A fresh key per
// resource keeps the 1 key : 1 resourceId contract.
func (p *processor) encryptionKey() ([]byte, error) {
	if p.fixedKey != nil {
		return p.fixedKey, nil
	}

	return format.NewKey()
}

func (p *processor) record(id format.ResourceID, resourceKey []byte) {
	if p.ring != nil {
		p.ring.Add(id, resourceKey)
	}
}

// decryptFile dispatches on the version varint: simple blobs are opened in
// memory, chunked ones stream through the transform.
func (p *processor) decryptFile(reader io.Reader, writer io.Writer) error {
	buffered := bufio.NewReader(reader)

	prefix, err := buffered.Peek(1)
	if err != nil {
		return fmt.Errorf("%w: empty input", format.ErrInvalidArgument)
	}

	if format.Version(prefix[0]) == format.VersionSimple {
		blob, err := io.ReadAll(buffered)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		clear, err := format.Decrypt(p.lookup(), blob)
		if err != nil {
			return err
		}

		if _, err := writer.Write(clear); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		return nil
	}

	decryptor := stream.NewDecryptor(writer, p.lookup())

	if _, err := io.Copy(decryptor, buffered); err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}

	if err := decryptor.Close(); err != nil {
		return fmt.Errorf("finalizing decryption: %w", err)
	}

	return nil
}

// lookup resolves keys by resource identifier, preferring the keyring.
func (p *processor) lookup() format.KeyLookup {
	if p.ring != nil {
		return p.ring.LookupFunc()
	}

	return format.FixedKey(p.fixedKey)
}

// outputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func (p *processor) outputPath(filename string) string {
	ext := p.cfg.Suffixes.Encrypt

	if p.cfg.Decrypt {
		filename = strings.TrimSuffix(filename, p.cfg.Suffixes.Encrypt)
		ext = p.cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename),
		filepath.Base(filename)+ext)
}
