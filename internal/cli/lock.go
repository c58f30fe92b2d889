package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// lockTimeout bounds how long acquireLock waits for a concurrent invocation
// to release the archive before giving up.
const lockTimeout = 5 * time.Second

var errLockTimeout = errors.New("timed out waiting for archive lock")

// archiveLock is an advisory, best-effort single-writer lock on an archive
// path. Concurrent access from multiple processes is a declared non-goal
// (spec.md §5) — this exists only to turn an accidental double-invocation
// into a clear wait-then-error instead of silent interleaved writes.
type archiveLock struct {
	file *os.File
}

// acquireLock opens (creating if necessary) path+".lock" and takes a
// non-blocking exclusive flock, retrying until lockTimeout elapses.
func acquireLock(path string) (*archiveLock, error) {
	lockPath := path + ".lock"

	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %q: %w", lockPath, err)
	}

	deadline := time.Now().Add(lockTimeout)

	const retryInterval = 10 * time.Millisecond

	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return &archiveLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(retryInterval)
	}
}

// release unconditionally releases the lock and closes the lock file,
// matching the resource-discipline requirement of spec.md §5 ("every
// opened file must be released on all exit paths").
func (l *archiveLock) release() {
	if l == nil || l.file == nil {
		return
	}

	_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	_ = l.file.Close()
}
