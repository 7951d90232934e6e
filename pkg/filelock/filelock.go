package filelock

import (
	"fmt"
	"os"
	"strconv"
)

// ErrLocked is returned by Lock when the lock file already exists.
var ErrLocked = fmt.Errorf("lock exists")

// Check reports whether the lock file name exists.
func Check(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// Lock creates name and records the current pid in it. It fails with
// ErrLocked if another process holds the lock.
func Lock(name string) error {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", name, ErrLocked)
		}
		return err
	}
	defer f.Close()
	_, err = f.WriteString(strconv.Itoa(os.Getpid()))
	return err
}

func UnLock(name string) error {
	err := os.Remove(name)
	if err != nil {
		return err
	}
	return nil
}
