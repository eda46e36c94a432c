package logic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/pkg/format"
)

// RunResourceID prints the resource identifier of each blob without
// touching a key: chunked blobs only need their header read, simple blobs
// carry the identifier as the trailing tag and need the full file.
func RunResourceID(cfg *config.Config) error {
	// Directory arguments default to files carrying the encrypted suffix,
	// same as decryption.
	cfg.Decrypt = true

	if _, err := resolveFiles(cfg); err != nil {
		return err
	}

	var failed int

	for _, file := range cfg.Files {
		id, err := fileResourceID(file)
		if err != nil {
			failed++

			fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", file, err)

			continue
		}

		fmt.Printf("%s  %s\n", id, file) //nolint:forbidigo
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}

	return nil
}

func fileResourceID(filename string) (format.ResourceID, error) {
	blobFile, err := os.Open(filepath.Clean(filename))
	if err != nil {
		return format.ResourceID{}, fmt.Errorf("opening file: %w", err)
	}
	defer blobFile.Close()

	header := make([]byte, format.HeaderSize)

	n, err := io.ReadFull(blobFile, header)
	if err != nil && n == 0 {
		return format.ResourceID{}, fmt.Errorf("%w: empty input", format.ErrInvalidArgument)
	}

	header = header[:n]

	version, _, err := format.DecodeVersion(header)
	if err != nil {
		return format.ResourceID{}, err
	}

	if format.Chunked(version) {
		return format.ExtractResourceID(header)
	}

	rest, err := io.ReadAll(blobFile)
	if err != nil {
		return format.ResourceID{}, fmt.Errorf("reading file: %w", err)
	}

	return format.ExtractResourceID(append(header, rest...))
}
