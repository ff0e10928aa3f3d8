// OS-level advisory file locking for cross-process coordination on a
// single-file table.
//
// fileLock wraps flock(2) / LockFileEx with a mutex that guards the file
// handle's lifetime, so that a concurrent Close cannot invalidate the fd
// mid-syscall. Callers use setFile(nil) before closing the underlying
// file; this blocks until any in-flight lock call completes, then makes
// subsequent Lock/Unlock calls no-ops.
package cyclicdb

import (
	"os"
	"sync"
)

// lockMode selects shared (read) or exclusive (write) locking.
type lockMode int

const (
	lockShared lockMode = iota
	lockExclusive
)

// fileLock coordinates OS-level file locks with safe handle teardown.
type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

// Lock acquires a shared or exclusive flock. Returns nil immediately if
// the handle has been cleared via setFile(nil).
func (l *fileLock) Lock(mode lockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock(mode)
}

// Unlock releases the flock. Returns nil immediately if the handle has
// been cleared via setFile(nil).
func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

// setFile swaps the underlying file handle. Passing nil drains any
// in-flight lock call and disables further locking.
func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.mu.Unlock()
}
