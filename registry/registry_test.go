package registry

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRootPrefixes(t *testing.T) {
	cases := []struct {
		ref  string
		root Root
		rest string
	}{
		{`HKLM:\SOFTWARE\Vendor`, LocalMachine, `SOFTWARE\Vendor`},
		{`HKEY_LOCAL_MACHINE\SOFTWARE\Vendor`, LocalMachine, `SOFTWARE\Vendor`},
		{`hkcu\Environment`, CurrentUser, `Environment`},
		{`HKU`, Users, ``},
		{`HKCC:\System`, CurrentConfig, `System`},
		{`HKCR\txtfile`, ClassesRoot, `txtfile`},
	}
	for _, tc := range cases {
		root, rest, err := ParseRoot(tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.root, root, tc.ref)
		assert.Equal(t, tc.rest, rest, tc.ref)
	}
}

func TestParseRootUnknownPrefix(t *testing.T) {
	_, _, err := ParseRoot(`HKXX:\SOFTWARE`)
	require.ErrorIs(t, err, ErrUnknownRoot)
}

func TestRootCanonicalPaths(t *testing.T) {
	assert.Equal(t, "HKEY_LOCAL_MACHINE", LocalMachine.Path())
	assert.Equal(t, "HKEY_CURRENT_USER", CurrentUser.Path())
	assert.Equal(t, "HKEY_USERS", Users.Path())
}

func TestSetValueUnsupportedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub only exists off windows")
	}
	_, err := SetValue(LocalMachine, `SOFTWARE\Vendor`, "Name", "value", String)
	require.ErrorIs(t, err, ErrUnsupported)
}
