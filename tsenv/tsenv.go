// Package tsenv adapts the task-sequence variable store the deployment
// tooling exposes. Variables are string named, string valued, and shared
// across separate process invocations of the same run.
package tsenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Store is the variable-store port. The recorder never assumes a specific
// transport behind it.
type Store interface {
	// Get returns the value for name and whether it was present.
	Get(name string) (string, bool)
	// Set writes name to value, overwriting any prior value.
	Set(name, value string) error
}

// MemoryStore keeps variables in-process. Used for tests and dry runs.
type MemoryStore struct {
	vars map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vars: map[string]string{}}
}

// Get implements Store.
func (m *MemoryStore) Get(name string) (string, bool) {
	v, ok := m.vars[name]
	return v, ok
}

// Set implements Store.
func (m *MemoryStore) Set(name, value string) error {
	m.vars[name] = value
	return nil
}

// Names returns the stored variable names in sorted order.
func (m *MemoryStore) Names() []string {
	names := make([]string, 0, len(m.vars))
	for name := range m.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileStore persists variables to a YAML file so that a later process
// invocation (End after Start) sees what an earlier one wrote. Variable
// names are the contract the task-sequence tooling consumes, so they are
// serialized byte-exact, case included. Every Set rewrites the file; there
// is no locking across processes.
type FileStore struct {
	path string
	vars map[string]string
}

// NewFileStore opens or creates the variable file at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("variable store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create variable store directory: %w", err)
	}

	store := &FileStore{path: path, vars: map[string]string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("read variable store %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &store.vars); err != nil {
		return nil, fmt.Errorf("parse variable store %s: %w", path, err)
	}
	if store.vars == nil {
		store.vars = map[string]string{}
	}
	return store, nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Get implements Store.
func (f *FileStore) Get(name string) (string, bool) {
	v, ok := f.vars[name]
	return v, ok
}

// Set implements Store. The value is flushed to disk immediately.
func (f *FileStore) Set(name, value string) error {
	f.vars[name] = value
	data, err := yaml.Marshal(f.vars)
	if err != nil {
		return fmt.Errorf("marshal variable store: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write variable store %s: %w", f.path, err)
	}
	return nil
}
