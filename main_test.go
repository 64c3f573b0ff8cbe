package main

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/beevik/ntp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osdstamp/timesync"
	"osdstamp/tsenv"
	"osdstamp/tzconvert"
)

func TestModeSelectionIsMandatory(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	require.Error(t, cmd.Execute())
}

func TestModeSelectionIsExclusive(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--start", "--end"})
	require.Error(t, cmd.Execute())
}

func TestInvalidZoneFailsBeforeCapture(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--start", "--dry-run",
		"--log-dir", t.TempDir(),
		"--destination-timezone", "Not/AZone",
	})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time zone")
}

func TestDryRunStartSucceeds(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--start", "--dry-run",
		"--variable-prefix", "MDT_",
		"--log-dir", dir,
	})
	require.NoError(t, cmd.Execute())

	// Dry runs still log, but never persist variables.
	vars := filepath.Join(dir, "osdstamp-vars.yaml")
	assert.NoFileExists(t, vars)
}

func TestUnreachableSyncStillRecordsTimestamp(t *testing.T) {
	dir := t.TempDir()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	failing := timesync.NewTrigger(quiet, 0).
		WithQuery(func(string) (*ntp.Response, error) {
			return nil, errors.New("i/o timeout")
		})

	opts := &options{
		start:         true,
		syncTime:      true,
		ntpServer:     "203.0.113.1",
		destinationTZ: tzconvert.DefaultDestinationZone,
		finalTZ:       tzconvert.DefaultFinalZone,
		logDir:        dir,
		storeFile:     filepath.Join(dir, "vars.yaml"),
		trigger:       failing,
	}
	require.NoError(t, run(opts), "an unreachable NTP server must not abort the run")

	store, err := tsenv.NewFileStore(opts.storeFile)
	require.NoError(t, err)
	_, ok := store.Get("OSDStartTime")
	assert.True(t, ok, "start timestamp is recorded with the local clock")
}

func TestPrefixWithoutSeparatorIsRejected(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--start", "--dry-run",
		"--variable-prefix", "MDT",
		"--log-dir", t.TempDir(),
	})
	require.Error(t, cmd.Execute())
}
