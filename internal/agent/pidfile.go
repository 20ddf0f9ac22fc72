// Package agent guards against concurrent maintenance agents. Only one
// agent should run per user: two schedulers would race on auto-backup
// timing and double-collect the sync spool.
package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"

	"github.com/okulov/timeledger/internal/errors"
	"github.com/okulov/timeledger/internal/storage"
)

const pidFileName = "agent.pid"

// ErrAlreadyRunning reports that another agent holds the pid file.
var ErrAlreadyRunning = errors.New("agent is already running")

// PIDFile is the single-instance lock for the agent process.
type PIDFile struct {
	path string
}

// NewPIDFile returns the pid file at its default XDG state location.
func NewPIDFile() *PIDFile {
	return &PIDFile{
		path: filepath.Join(xdg.StateHome, storage.AppName, pidFileName),
	}
}

// Path returns the pid file location.
func (p *PIDFile) Path() string {
	return p.path
}

// Acquire claims the lock for the current process. A pid file left by a
// dead process is treated as stale and taken over.
func (p *PIDFile) Acquire() error {
	if pid, err := p.read(); err == nil && processAlive(pid) {
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return errors.Wrap(err, "create state directory")
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return errors.Wrap(err, "write pid file")
	}
	return nil
}

// Release removes the pid file. Missing files are not an error; a crash
// before Release leaves a stale file the next Acquire takes over.
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove pid file")
	}
	return nil
}

// RunningPID returns the pid of a live agent, or 0 when none is running.
func (p *PIDFile) RunningPID() int {
	pid, err := p.read()
	if err != nil || !processAlive(pid) {
		return 0
	}
	return pid
}

func (p *PIDFile) read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// processAlive probes the pid with signal 0. On Unix FindProcess always
// succeeds, so the signal is the actual liveness check.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
