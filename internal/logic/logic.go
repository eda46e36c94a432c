// Package logic implements the file-level operations of the goseal tool on
// top of the encryption engine.
package logic

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gogen/pkg/key"

	"github.com/idelchi/goseal/internal/config"
	"github.com/idelchi/goseal/internal/filter"
	"github.com/idelchi/goseal/internal/keyring"
	"github.com/idelchi/goseal/pkg/format"
	"github.com/idelchi/goseal/pkg/pathmatch"
)

// Run encrypts or decrypts the configured files in parallel.
func Run(cfg *config.Config) error {
	start := time.Now()

	scanned, err := resolveFiles(cfg)
	if err != nil {
		return err
	}

	excluded := scanned - len(cfg.Files)

	fixedKey, err := resolveKey(cfg)
	if err != nil {
		return err
	}

	var ring *keyring.Keyring

	if cfg.Keyring != "" {
		if ring, err = keyring.Load(cfg.Keyring); err != nil {
			return err
		}
	}

	if fixedKey == nil && ring == nil {
		return fmt.Errorf("%w: either a key or a keyring is required", format.ErrInvalidArgument)
	}

	proc, err := newProcessor(cfg, fixedKey, ring)
	if err != nil {
		return err
	}

	processed, errored, totalSize, err := proc.run()

	// New per-resource keys only appear on the encrypt path.
	if ring != nil && !cfg.Decrypt {
		if saveErr := ring.Save(); saveErr != nil && err == nil {
			err = saveErr
		}
	}

	if cfg.Stats {
		printStats(scanned, excluded, processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("processing files: %w", err)
	}

	return nil
}

// resolveFiles expands positional arguments into the concrete file list:
// directories are walked and matched against include/exclude patterns.
// Decrypting a directory defaults to files carrying the encrypted suffix;
// encrypting one skips files that already carry it.
func resolveFiles(cfg *config.Config) (int, error) {
	includes := append([]string{}, cfg.Include...)
	excludes := append([]string{}, cfg.Exclude...)

	if cfg.IncludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.IncludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if cfg.ExcludeFrom != "" {
		patterns, err := filter.LoadPatterns(cfg.ExcludeFrom)
		if err != nil {
			return 0, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	hasIncludes := len(cfg.Include) > 0 || cfg.IncludeFrom != ""

	if cfg.Suffixes.Encrypt != "" {
		sealed := pathmatch.Suffix(cfg.Suffixes.Encrypt)

		if cfg.Decrypt && !hasIncludes {
			includes = append(includes, sealed)
			hasIncludes = true
		}

		if !cfg.Decrypt {
			excludes = append(excludes, sealed)
		}
	}

	files, scanned, err := filter.Resolve(cfg.Files, includes, excludes, hasIncludes)
	if err != nil {
		return scanned, fmt.Errorf("filtering files: %w", err)
	}

	cfg.Files = files

	return scanned, nil
}

// resolveKey reads the key flag or key file. Returns nil when neither is
// set, in which case a keyring must supply the keys.
func resolveKey(cfg *config.Config) ([]byte, error) {
	switch {
	case cfg.Key.String != "":
		resolved, err := key.FromHex(cfg.Key.String)
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}

		return resolved, nil
	case cfg.Key.File != "":
		raw, err := os.ReadFile(cfg.Key.File)
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		resolved, err := key.FromHex(strings.TrimSpace(string(raw)))
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}

		return resolved, nil
	default:
		return nil, nil
	}
}

func printStats(scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(os.Stderr, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(os.Stderr, "  Processed: %d\n", processed)
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(os.Stderr, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
