package sysinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectReportsClockZone(t *testing.T) {
	info, err := Collect()
	require.NoError(t, err)

	zone, offset := time.Now().Zone()
	assert.Equal(t, zone, info.TimeZone)
	assert.Equal(t, offset, info.UTCOffsetSec)
	assert.NotEmpty(t, info.Hostname)
}
