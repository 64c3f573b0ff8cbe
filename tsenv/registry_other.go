//go:build !windows

package tsenv

import "osdstamp/registry"

// NewRegistryStore is windows-only; other platforms report ErrUnsupported.
func NewRegistryStore(string) (Store, error) {
	return nil, registry.ErrUnsupported
}
