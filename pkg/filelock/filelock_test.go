package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestLock(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), "test.lock")
	t.Run("Lock success", func(t *testing.T) {
		if err := Lock(lockfile); err != nil {
			t.Fatalf("Wanted nil, got %v", err)
		}
		data, err := os.ReadFile(lockfile)
		if err != nil {
			t.Fatal(err)
		}
		if want := strconv.Itoa(os.Getpid()); string(data) != want {
			t.Fatalf("Wanted %s, got %s", want, data)
		}
	})

	t.Run("Lock failed", func(t *testing.T) {
		err := Lock(lockfile)
		if !errors.Is(err, ErrLocked) {
			t.Fatalf("Wanted %v, got %v", ErrLocked, err)
		}
	})

	t.Run("Check", func(t *testing.T) {
		if !Check(lockfile) {
			t.Fatal("Wanted true, got false")
		}
	})
}

func TestUnLock(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), "test.lock")
	if err := Lock(lockfile); err != nil {
		t.Fatal(err)
	}
	t.Run("UnLock success", func(t *testing.T) {
		if err := UnLock(lockfile); err != nil {
			t.Fatalf("Wanted nil, got %v", err)
		}
		if Check(lockfile) {
			t.Fatal("Wanted false, got true")
		}
	})

	t.Run("UnLock failed", func(t *testing.T) {
		if err := UnLock(lockfile); err == nil {
			t.Fatal("Wanted error, got nil")
		}
	})
}
