//go:build !unix

package ledger

// withDirLock runs fn without locking on platforms lacking flock
func withDirLock(_ string, fn func() error) error {
	return fn()
}
