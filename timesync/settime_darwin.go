//go:build darwin

package timesync

import (
	"syscall"
	"time"
)

// setSystemTime steps the system clock via the Darwin settimeofday syscall.
func setSystemTime(t time.Time) error {
	utc := t.UTC()
	tv := syscall.Timeval{
		Sec:  utc.Unix(),
		Usec: int32(utc.Nanosecond() / 1000),
	}
	return syscall.Settimeofday(&tv)
}
