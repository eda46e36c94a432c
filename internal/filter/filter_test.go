package filter_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/idelchi/goseal/internal/filter"
)

// writeTree materializes a set of relative paths under dir.
func writeTree(t *testing.T, dir string, paths ...string) {
	t.Helper()

	for _, path := range paths {
		full := filepath.Join(dir, path)

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}

		if err := os.WriteFile(full, []byte(path), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	// Resolve works on paths relative to the working directory.
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}

	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestResolveWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt", "b.log", "sub/c.txt", "sub/d.bin")
	chdir(t, dir)

	files, scanned, err := filter.Resolve([]string{"."}, []string{"*.txt"}, nil, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if scanned != 4 {
		t.Errorf("scanned = %d, want 4", scanned)
	}

	slices.Sort(files)

	want := []string{"a.txt", filepath.Join("sub", "c.txt")}

	if !slices.Equal(files, want) {
		t.Errorf("Resolve = %v, want %v", files, want)
	}
}

func TestResolveExcludesWin(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt", "sub/b.txt")
	chdir(t, dir)

	files, _, err := filter.Resolve([]string{"."}, []string{"*.txt"}, []string{"sub/*"}, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if want := []string{"a.txt"}; !slices.Equal(files, want) {
		t.Errorf("Resolve = %v, want %v", files, want)
	}
}

func TestResolveExplicitFileBypassesFilter(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.bin")
	chdir(t, dir)

	// The exclude would reject it on a walk; naming it directly wins.
	files, _, err := filter.Resolve([]string{"a.bin"}, nil, []string{"*.bin"}, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if want := []string{"a.bin"}; !slices.Equal(files, want) {
		t.Errorf("Resolve = %v, want %v", files, want)
	}
}

func TestResolveNoMatchesIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.txt")
	chdir(t, dir)

	if _, _, err := filter.Resolve([]string{"."}, []string{"*.nope"}, nil, true); err == nil {
		t.Error("Resolve succeeded with zero matches")
	}
}

func TestResolveMissingPath(t *testing.T) {
	if _, _, err := filter.Resolve([]string{filepath.Join(t.TempDir(), "ghost")}, nil, nil, false); err == nil {
		t.Error("Resolve succeeded on a missing path")
	}
}

func TestLoadPatterns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patterns.jsonc")

	content := `// sealed inputs
[
  "*.txt", // notes
  "src/*"
]`

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	patterns, err := filter.LoadPatterns(path)
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}

	if want := []string{"*.txt", "src/*"}; !slices.Equal(patterns, want) {
		t.Errorf("LoadPatterns = %v, want %v", patterns, want)
	}
}
