//go:build unix

package ledger

import (
	"os"
	"syscall"
)

// withDirLock runs fn while holding an exclusive flock on dir. Locking the
// directory leaves no lock file behind and survives the ledger being
// replaced by rename.
func withDirLock(dir string, fn func() error) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := syscall.Flock(int(d.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(d.Fd()), syscall.LOCK_UN)

	return fn()
}
