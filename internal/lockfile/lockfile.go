// Package lockfile records the running server as "pid|address" so other
// bium processes stay read-only while it owns the data.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/bium/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

var (
	// ErrServerRunning is returned when another live bium process holds the lock.
	ErrServerRunning = errors.New("bium server is running")
	// ErrMalformed is returned for a lockfile that cannot be parsed.
	ErrMalformed = errors.New("lockfile is malformed")
)

type Info struct {
	PID     int
	Address string
}

// Path returns the lockfile location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, constants.ServerLockfileName)
}

// Read parses the lockfile at path.
func Read(path string) (Info, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return Info{}, ErrMalformed
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Info{}, fmt.Errorf("%w: invalid process ID %q", ErrMalformed, parts[0])
	}
	if strings.TrimSpace(parts[1]) == "" {
		return Info{}, fmt.Errorf("%w: address is empty", ErrMalformed)
	}
	return Info{PID: pid, Address: parts[1]}, nil
}

// Active reports the holder of the lock when it is a live bium process.
// Missing, malformed and stale lockfiles all report false.
func Active(path string) (Info, bool) {
	info, err := Read(path)
	if err != nil {
		return Info{}, false
	}
	process, err := findProcessFunc(info.PID)
	if err != nil || process == nil {
		return info, false
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return info, false
	}
	return info, true
}

// Acquire writes the lockfile for this process. It fails with
// ErrServerRunning when another live process already holds it.
func Acquire(path, address string) error {
	if info, ok := Active(path); ok && info.PID != getpidFunc() {
		return fmt.Errorf("%w at %s (pid %d)", ErrServerRunning, info.Address, info.PID)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%s", getpidFunc(), address)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// Release removes the lockfile if this process holds it.
func Release(path string) error {
	info, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.PID != getpidFunc() {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// Guard returns a pre-write check that refuses mutations while another
// process serves the data.
func Guard(path string) func(op string) error {
	return func(op string) error {
		info, ok := Active(path)
		if !ok || info.PID == getpidFunc() {
			return nil
		}
		return fmt.Errorf("cannot %s: %w at %s (pid %d); use the API or stop the server", op, ErrServerRunning, info.Address, info.PID)
	}
}
