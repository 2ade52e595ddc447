//go:build !linux && !darwin

package filestore

// lockFile is a no-op where flock is unavailable; only the in-process
// mutex serializes writers.
func lockFile(path string) (func(), error) {
	return func() {}, nil
}
