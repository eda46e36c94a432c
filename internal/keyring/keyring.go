// Package keyring implements the key-lookup collaborator of the engine for
// local use: a YAML file mapping resource identifiers to symmetric keys.
package keyring

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/idelchi/goseal/pkg/format"
)

// Keyring is a resourceId -> key table, safe for concurrent use.
type Keyring struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// Load reads a keyring file. A missing file yields an empty keyring.
func Load(path string) (*Keyring, error) {
	keyring := &Keyring{
		path:    path,
		entries: map[string]string{},
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if errors.Is(err, fs.ErrNotExist) {
		return keyring, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading keyring %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &keyring.entries); err != nil {
		return nil, fmt.Errorf("parsing keyring %q: %w", path, err)
	}

	return keyring, nil
}

// Add records the key for a resource identifier.
func (k *Keyring) Add(id format.ResourceID, key []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.entries[id.String()] = hex.EncodeToString(key)
}

// Lookup resolves the key for a resource identifier.
func (k *Keyring) Lookup(id format.ResourceID) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.entries[id.String()]
	if !ok {
		return nil, fmt.Errorf("no key for resource %s", id)
	}

	key, err := hex.DecodeString(entry)
	if err != nil {
		return nil, fmt.Errorf("keyring entry for %s is not hex: %w", id, err)
	}

	return key, nil
}

// LookupFunc adapts the keyring to the engine's collaborator interface.
func (k *Keyring) LookupFunc() format.KeyLookup {
	return k.Lookup
}

// Save writes the keyring back to its file, owner-readable only.
func (k *Keyring) Save() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := yaml.Marshal(k.entries)
	if err != nil {
		return fmt.Errorf("serializing keyring: %w", err)
	}

	const ownerReadWrite = 0o600

	if err := os.WriteFile(k.path, data, ownerReadWrite); err != nil {
		return fmt.Errorf("writing keyring %q: %w", k.path, err)
	}

	return nil
}
