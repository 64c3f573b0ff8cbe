// Package sysinfo snapshots the host once at process start. Components
// receive the snapshot by value instead of poking at ambient OS state.
package sysinfo

import (
	"time"

	"github.com/shirou/gopsutil/v3/host"
)

// SystemInfo describes the machine the deployment run executes on.
type SystemInfo struct {
	Hostname        string    `yaml:"hostname"`
	OS              string    `yaml:"os"`
	Platform        string    `yaml:"platform"`
	PlatformVersion string    `yaml:"platform_version"`
	BootTime        time.Time `yaml:"boot_time"`
	TimeZone        string    `yaml:"time_zone"`
	UTCOffsetSec    int       `yaml:"utc_offset_sec"`
}

// Collect assembles the snapshot. The zone fields always reflect the
// current clock; host details are best-effort and the error only reports
// that they could not be gathered.
func Collect() (SystemInfo, error) {
	zone, offset := time.Now().Zone()
	info := SystemInfo{
		TimeZone:     zone,
		UTCOffsetSec: offset,
	}

	h, err := host.Info()
	if err != nil {
		return info, err
	}
	info.Hostname = h.Hostname
	info.OS = h.OS
	info.Platform = h.Platform
	info.PlatformVersion = h.PlatformVersion
	info.BootTime = time.Unix(int64(h.BootTime), 0)
	return info, nil
}
