package runlog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"osdstamp/sysinfo"
)

func TestOpenCreatesDirectoryAndLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	lg, err := Open(dir, slog.LevelInfo)
	require.NoError(t, err)
	defer lg.Close()

	lg.Logger.Info("hello")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "osdstamp-"))
}

func TestRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()

	record := NewRecord("start", sysinfo.SystemInfo{Hostname: "pxe-client-01", TimeZone: "UTC"})
	record.Sync = SyncOutcome{Attempted: true, Success: true, Server: "pool.ntp.org"}
	record.Variables["OSDStartTime"] = "2024-01-01T00:00:00.000Z"

	path, err := record.Write(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Record
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, record.RunID, got.RunID)
	assert.Equal(t, "start", got.Mode)
	assert.Equal(t, "pxe-client-01", got.Host.Hostname)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", got.Variables["OSDStartTime"])
}

func TestRecordAppendsDocuments(t *testing.T) {
	dir := t.TempDir()

	_, err := NewRecord("start", sysinfo.SystemInfo{}).Write(dir)
	require.NoError(t, err)
	path, err := NewRecord("end", sysinfo.SystemInfo{}).Write(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "---\n"))
}
