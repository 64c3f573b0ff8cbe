// Package registry writes values under the Windows registry roots the
// deployment tooling uses. Root selection is a table lookup over the usual
// short and long prefixes; key paths are created on demand.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Root identifies a registry hive root.
type Root int

const (
	LocalMachine Root = iota
	CurrentUser
	ClassesRoot
	Users
	CurrentConfig
)

// ValueKind selects the registry value type written by SetValue.
type ValueKind int

const (
	String ValueKind = iota
	ExpandString
	DWord
	QWord
)

var (
	// ErrAccessDenied reports insufficient privilege for a hive operation.
	ErrAccessDenied = errors.New("registry access denied")
	// ErrUnknownRoot reports a root prefix outside the mapping table.
	ErrUnknownRoot = errors.New("unknown registry root")
	// ErrUnsupported reports registry use on a non-windows build.
	ErrUnsupported = errors.New("registry is only available on windows")
)

// rootsByPrefix maps both the abbreviated and canonical spellings to a root.
var rootsByPrefix = map[string]Root{
	"HKLM":                LocalMachine,
	"HKEY_LOCAL_MACHINE":  LocalMachine,
	"HKCU":                CurrentUser,
	"HKEY_CURRENT_USER":   CurrentUser,
	"HKCR":                ClassesRoot,
	"HKEY_CLASSES_ROOT":   ClassesRoot,
	"HKU":                 Users,
	"HKEY_USERS":          Users,
	"HKCC":                CurrentConfig,
	"HKEY_CURRENT_CONFIG": CurrentConfig,
}

var rootPaths = map[Root]string{
	LocalMachine:  "HKEY_LOCAL_MACHINE",
	CurrentUser:   "HKEY_CURRENT_USER",
	ClassesRoot:   "HKEY_CLASSES_ROOT",
	Users:         "HKEY_USERS",
	CurrentConfig: "HKEY_CURRENT_CONFIG",
}

// Path returns the canonical root path, e.g. "HKEY_LOCAL_MACHINE".
func (r Root) Path() string { return rootPaths[r] }

func (r Root) String() string { return r.Path() }

// ParseRoot splits a key reference such as "HKLM:\SOFTWARE\Vendor" or
// "HKEY_LOCAL_MACHINE\SOFTWARE\Vendor" into its root and the subkey path.
func ParseRoot(ref string) (Root, string, error) {
	prefix := ref
	rest := ""
	if i := strings.IndexAny(ref, `:\`); i >= 0 {
		prefix = ref[:i]
		rest = strings.TrimLeft(ref[i:], `:\`)
	}
	root, ok := rootsByPrefix[strings.ToUpper(prefix)]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownRoot, prefix)
	}
	return root, rest, nil
}

// WriteResult reports where a value landed.
type WriteResult struct {
	KeyPath  string
	RootPath string
}

// SetValue creates the key path under root if absent and writes name=value
// with the requested kind. String kinds accept string values; DWord and
// QWord accept unsigned integers.
func SetValue(root Root, path, name string, value any, kind ValueKind) (WriteResult, error) {
	return setValue(root, path, name, value, kind)
}

// GetString reads a string value, returning found=false when the key or
// value does not exist.
func GetString(root Root, path, name string) (string, bool, error) {
	return getString(root, path, name)
}
