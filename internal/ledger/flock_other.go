//go:build !unix

package ledger

// lockFile is a no-op where flock(2) is unavailable; appends are then only
// serialised within one process.
func lockFile(string) (func() error, error) {
	return func() error { return nil }, nil
}
