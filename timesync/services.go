package timesync

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultServices returns the time service for the running platform.
func DefaultServices() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{"w32time"}
	case "darwin":
		return []string{"com.apple.timed"}
	default:
		return []string{"systemd-timesyncd"}
	}
}

// EnsureRunning starts each named service with the platform service
// manager. A failed start is reported but does not stop the remaining
// services from being attempted; the first error is returned.
func EnsureRunning(log *slog.Logger, services []string) error {
	var firstErr error
	for _, service := range services {
		service = strings.TrimSpace(service)
		if service == "" {
			continue
		}
		cmd := startCommand(service)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			err = wrapToolErr(cmd.Path, err, stderr.Bytes())
			log.Error("failed to start service", "service", service, "err", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info("service running", "service", service)
	}
	return firstErr
}

// startCommand builds the per-platform service start invocation.
func startCommand(service string) *exec.Cmd {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("sc", "start", service)
	case "darwin":
		return exec.Command("launchctl", "start", service)
	default:
		return exec.Command("systemctl", "start", service)
	}
}

// wrapToolErr folds a command failure into ErrExternalToolExit, keeping the
// exit code and anything the tool wrote to stderr.
func wrapToolErr(tool string, err error, stderr []byte) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = "no stderr output"
		}
		return fmt.Errorf("%w: %s exit code %d: %s", ErrExternalToolExit, tool, exitErr.ExitCode(), msg)
	}
	return fmt.Errorf("run %s: %w", tool, err)
}
