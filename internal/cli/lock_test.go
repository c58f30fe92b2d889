package cli

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestAcquireLock_Basic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.bkar")

	lock, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock: %v", err)
	}

	lock.release()
}

func TestAcquireLock_TimesOutWhileHeld(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.bkar")

	holder, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock: %v", err)
	}
	defer holder.release()

	done := make(chan struct{})

	var secondErr error

	go func() {
		_, secondErr = acquireLock(path)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(lockTimeout + 2*time.Second):
		t.Fatal("second acquireLock never returned")
	}

	if !errors.Is(secondErr, errLockTimeout) {
		t.Errorf("second acquireLock error = %v, want errLockTimeout", secondErr)
	}
}

func TestAcquireLock_Concurrent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.bkar")

	var holder atomic.Int32

	const numGoroutines = 5

	var wg sync.WaitGroup

	for idx := range numGoroutines {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			lock, err := acquireLock(path)
			if err != nil {
				t.Errorf("goroutine %d: acquireLock: %v", id, err)

				return
			}

			if !holder.CompareAndSwap(0, int32(id+1)) { //nolint:gosec // small test value
				t.Errorf("goroutine %d acquired lock while %d holds it", id, holder.Load()-1)
			}

			time.Sleep(5 * time.Millisecond)

			holder.Store(0)
			lock.release()
		}(idx)
	}

	wg.Wait()
}
