// Package timesync forces an NTP clock synchronization before timestamps
// are captured. Sync failures are best-effort: the caller logs them and
// records timestamps with whatever clock state remains.
package timesync

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/beevik/ntp"
)

var (
	// ErrSyncUnreachable reports an NTP server that could not be queried.
	ErrSyncUnreachable = errors.New("ntp server unreachable")
	// ErrExternalToolExit reports a non-zero exit from an OS tool.
	ErrExternalToolExit = errors.New("external tool exited with error")
)

// DefaultNTPServer is the public pool queried when no server is configured.
const DefaultNTPServer = "pool.ntp.org"

// DefaultSettleDelay is slept after a successful sync so the stepped clock
// and restarted services stabilize before timestamps are captured.
const DefaultSettleDelay = 5 * time.Second

// SyncResult reports the outcome of one synchronization attempt.
type SyncResult struct {
	Success  bool
	Server   string
	ServerIP string
	Offset   time.Duration
	RTT      time.Duration
	Stratum  uint8
	ExitCode int
}

// QueryFunc queries an NTP server. Injectable for tests.
type QueryFunc func(server string) (*ntp.Response, error)

// Trigger performs the optional pre-capture synchronization.
type Trigger struct {
	query    QueryFunc
	setClock func(time.Time) error
	sleep    func(time.Duration)
	settle   time.Duration
	log      *slog.Logger
}

// NewTrigger builds a Trigger that queries real NTP servers and steps the
// system clock.
func NewTrigger(log *slog.Logger, settle time.Duration) *Trigger {
	return &Trigger{
		query:    ntp.Query,
		setClock: setSystemTime,
		sleep:    time.Sleep,
		settle:   settle,
		log:      log,
	}
}

// WithQuery replaces the NTP querier, for tests.
func (t *Trigger) WithQuery(q QueryFunc) *Trigger {
	t.query = q
	return t
}

// WithClockSetter replaces the system clock setter, for tests.
func (t *Trigger) WithClockSetter(set func(time.Time) error) *Trigger {
	t.setClock = set
	return t
}

// WithSleep replaces the settle sleep, for tests.
func (t *Trigger) WithSleep(sleep func(time.Duration)) *Trigger {
	t.sleep = sleep
	return t
}

// Sync queries server, steps the system clock by the measured offset, and
// waits the settle delay. An unreachable server returns ErrSyncUnreachable;
// the zero-offset case still counts as a successful sync.
func (t *Trigger) Sync(server string) (SyncResult, error) {
	result := SyncResult{Server: server}

	if net.ParseIP(server) == nil {
		ip, err := serverIP(server)
		if err != nil {
			result.ExitCode = 1
			return result, fmt.Errorf("%w: resolve %s: %v", ErrSyncUnreachable, server, err)
		}
		result.ServerIP = ip
	} else {
		result.ServerIP = server
	}

	response, err := t.query(server)
	if err != nil {
		result.ExitCode = 1
		return result, fmt.Errorf("%w: query %s: %v", ErrSyncUnreachable, server, err)
	}

	result.Offset = response.ClockOffset
	result.RTT = response.RTT
	result.Stratum = response.Stratum

	corrected := time.Now().Add(response.ClockOffset)
	if err := t.setClock(corrected); err != nil {
		result.ExitCode = 1
		return result, fmt.Errorf("set system clock: %w", err)
	}

	result.Success = true
	t.log.Info("clock synchronized",
		"server", server,
		"offset", response.ClockOffset,
		"rtt", response.RTT,
		"stratum", response.Stratum)

	if t.settle > 0 {
		t.log.Debug("waiting for clock to settle", "delay", t.settle)
		t.sleep(t.settle)
	}
	return result, nil
}

// serverIP resolves the first IPv4 address of server.
func serverIP(server string) (string, error) {
	ips, err := net.LookupIP(server)
	if err != nil {
		return "", err
	}
	for _, ip := range ips {
		if ipv4 := ip.To4(); ipv4 != nil {
			return ipv4.String(), nil
		}
	}
	return "", fmt.Errorf("no IPv4 address found for server %s", server)
}
