//go:build linux

package timesync

import (
	"syscall"
	"time"
)

// setSystemTime steps the system clock via settimeofday. Needs
// CAP_SYS_TIME, which the pre-installation environment runs with.
func setSystemTime(t time.Time) error {
	tv := syscall.Timeval{
		Sec:  t.Unix(),
		Usec: int64(t.Nanosecond() / 1000),
	}
	return syscall.Settimeofday(&tv)
}
