package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile enforces a single running worker instance through a pid file.
type PIDFile struct {
	path string
}

func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current pid to the file. It fails when another live
// process already holds the file and silently replaces stale entries left
// behind by a crashed worker.
func (p *PIDFile) Acquire() error {
	if data, err := os.ReadFile(p.path); err == nil {
		pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && processAlive(pid) {
			return fmt.Errorf("worker already running (PID %d)", pid)
		}
		_ = os.Remove(p.path)
	}

	contents := fmt.Sprintf("%d\n", os.Getpid())
	if err := os.WriteFile(p.path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the pid file. A missing file is not an error.
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// processAlive probes a pid with signal 0. EPERM means the process exists
// but belongs to another user, which still counts as running.
func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}
