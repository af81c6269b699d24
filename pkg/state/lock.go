package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LockFile is created in the output directory for the duration of a run.
const LockFile = ".align.lock"

// ErrLocked is returned when another live process holds the output directory.
var ErrLocked = errors.New("output directory is in use by another run")

// processAlive is replaced in tests.
var processAlive = isProcessAlive

// Lock is a held output directory lock.
type Lock struct {
	path string
}

// AcquireLock creates the lock file in dir and writes the current PID to it.
// Creation is exclusive, so of two runs starting together only one gets the
// lock. A lock left behind by a process that is no longer running is removed
// and creation is retried once.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFile)

	for attempt := 0; attempt < 2; attempt++ {
		err := createLockFile(path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create lock file: %w", err)
		}

		pid, err := readLockFile(path)
		if errors.Is(err, os.ErrNotExist) {
			// Released between our create and read.
			continue
		}
		if err != nil {
			// Empty or partial: the owner may still be writing its PID.
			return nil, fmt.Errorf("%w (%s: %v)", ErrLocked, path, err)
		}
		if processAlive(pid) {
			return nil, fmt.Errorf("%w (pid %d, %s)", ErrLocked, pid, path)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove stale lock file: %w", err)
		}
	}
	return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
}

func createLockFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Release deletes the lock file.
func (l *Lock) Release() error {
	// It's not an error if the file doesn't exist.
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func readLockFile(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}
	return pid, nil
}
