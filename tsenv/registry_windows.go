//go:build windows

package tsenv

import (
	"osdstamp/registry"
)

// RegistryStore persists variables as string values under a registry key,
// for task sequences that read results back from the registry instead of a
// shared file.
type RegistryStore struct {
	root registry.Root
	path string
}

// NewRegistryStore parses a key reference such as
// `HKLM:\SOFTWARE\OSDStamp\Run` and stores variables beneath it.
func NewRegistryStore(keyRef string) (Store, error) {
	root, path, err := registry.ParseRoot(keyRef)
	if err != nil {
		return nil, err
	}
	return &RegistryStore{root: root, path: path}, nil
}

// Get implements Store.
func (r *RegistryStore) Get(name string) (string, bool) {
	value, ok, err := registry.GetString(r.root, r.path, name)
	if err != nil {
		return "", false
	}
	return value, ok
}

// Set implements Store.
func (r *RegistryStore) Set(name, value string) error {
	_, err := registry.SetValue(r.root, r.path, name, value, registry.String)
	return err
}
