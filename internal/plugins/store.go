// Package plugins provides read access to the local plugin store.
//
// The store lives under ~/.tether/plugins. Each installed plugin occupies one
// subdirectory holding a JSON manifest (<name>.json) and the plugin binary
// (tether-plugin-<name>). Install, update, and removal are handled by the
// cloud plugin; this package only lists and resolves what is already there.
package plugins

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// BinaryPrefix is the file name prefix of every plugin executable.
const BinaryPrefix = "tether-plugin-"

// ErrNoStore indicates that the plugin store directory does not exist.
var ErrNoStore = errors.New("plugin store not initialized")

// Manifest describes one installed plugin.
type Manifest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
	Homepage    string `json:"homepage,omitempty"`
}

// Store is a handle to the local plugin store directory.
type Store struct {
	root string
}

// TryOpen opens the store at its default location. Callers treat failure as
// "no plugins installed" rather than a fatal condition.
func TryOpen() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return Open(dir)
}

// Open opens the store rooted at dir.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNoStore, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open plugin store: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("plugin store path is not a directory: %s", dir)
	}
	return &Store{root: dir}, nil
}

// DefaultDir returns the default plugin store location, honoring the
// TETHER_PLUGINS_DIR override.
func DefaultDir() (string, error) {
	if dir := os.Getenv("TETHER_PLUGINS_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".tether", "plugins"), nil
}

// Root returns the store directory.
func (s *Store) Root() string {
	return s.root
}

// InstalledManifests lists the manifests of all installed plugins in store
// order. Entries without a readable manifest are skipped.
func (s *Store) InstalledManifests() ([]Manifest, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin store: %w", err)
	}

	var manifests []Manifest
	for _, ent := range dirents {
		if !ent.IsDir() {
			continue
		}
		m, err := s.loadManifest(ent.Name())
		if err != nil {
			continue
		}
		manifests = append(manifests, *m)
	}
	return manifests, nil
}

// BinaryPath resolves the executable for the named plugin. It returns an
// error when the plugin is not installed or its binary is not executable.
func (s *Store) BinaryPath(name string) (string, error) {
	path := filepath.Join(s.root, name, BinaryPrefix+name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("plugin %q is not installed: %w", name, err)
	}
	if info.Mode()&0111 == 0 {
		return "", fmt.Errorf("plugin binary is not executable: %s", path)
	}
	return path, nil
}

// loadManifest reads and validates the manifest of a single plugin directory.
func (s *Store) loadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(s.root, dir, dir+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	if m.Name == "" {
		m.Name = dir
	}
	return &m, nil
}
