package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"osdstamp/recorder"
	"osdstamp/timesync"
)

func TestSummaryListsVariables(t *testing.T) {
	out := Summary("start", nil, []recorder.Variable{
		{Name: "OSDStartTime", Value: "2024-01-01T00:00:00.000Z"},
		{Name: "OSDOriginalTimeZoneID", Value: "EET"},
	})

	assert.Contains(t, out, "start")
	assert.Contains(t, out, "OSDStartTime")
	assert.Contains(t, out, "2024-01-01T00:00:00.000Z")
	assert.Contains(t, out, "OSDOriginalTimeZoneID")
}

func TestSummaryIncludesSyncOutcome(t *testing.T) {
	sync := &timesync.SyncResult{
		Success:  true,
		Server:   "pool.ntp.org",
		ServerIP: "162.159.200.1",
		Offset:   100 * time.Millisecond,
		RTT:      20 * time.Millisecond,
		Stratum:  2,
	}
	out := Summary("end", sync, nil)

	assert.Contains(t, out, "pool.ntp.org (162.159.200.1)")
	assert.Contains(t, out, "100ms")
}

func TestSummaryReportsFailedSync(t *testing.T) {
	out := Summary("start", &timesync.SyncResult{Server: "10.0.0.1", ServerIP: "10.0.0.1"}, nil)
	assert.Contains(t, out, "failed, proceeding with local clock")
}
