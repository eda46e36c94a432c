// Package filter resolves the positional arguments of the tool into the
// concrete list of files to seal or unseal. Explicit files are taken as
// given; directories are walked and matched against include/exclude
// patterns with find -path semantics.
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/goseal/pkg/pathmatch"
)

// Filter selects walked files by include/exclude patterns. Empty includes
// means "match all". Excludes always win.
type Filter struct {
	includes *pathmatch.Matcher
	excludes *pathmatch.Matcher
}

// NewFilter compiles include/exclude patterns into a reusable filter.
// Leading "./" is stripped so patterns line up with cleaned paths.
func NewFilter(includes, excludes []string) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(normalize(includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(normalize(excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc}, nil
}

// selects reports whether a walked path passes the filter.
func (f *Filter) selects(path string, hasIncludes bool) bool {
	included := !hasIncludes || f.includes.MatchAny(path)
	excluded := f.excludes.MatchAny(path)

	return included && !excluded
}

func normalize(patterns []string) []string {
	for i, p := range patterns {
		patterns[i] = strings.TrimPrefix(p, "./")
	}

	return patterns
}

// Resolve expands args (files and directories) into the files to process.
// Explicit files bypass filtering; directories are walked and filtered.
// hasIncludes records whether include filtering was requested at all, so
// that an empty include list still means "match all" when it was not.
// The second return is the total number of candidates scanned.
func Resolve(args, includes, excludes []string, hasIncludes bool) ([]string, int, error) {
	flt, err := NewFilter(includes, excludes)
	if err != nil {
		return nil, 0, err
	}

	var (
		files   []string
		scanned int
	)

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++
			add(arg)

			continue
		}

		walked, total, err := walkDir(arg, flt, hasIncludes)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, path := range walked {
			add(path)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided patterns: %v", args)
	}

	return files, scanned, nil
}

// walkDir walks root recursively, returning the files that pass the
// filter. Paths stay relative to the working directory and are matched
// with forward slashes.
func walkDir(root string, flt *Filter, hasIncludes bool) (files []string, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		total++

		if flt.selects(filepath.ToSlash(filepath.Clean(path)), hasIncludes) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}
