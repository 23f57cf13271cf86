// Package fsutil holds the filesystem existence probe used throughout the
// setup pipeline.
//
// The probe deliberately collapses every access error to false: callers
// only ever ask "can I proceed as if this exists", and any failure to
// answer — not-found, permission denied, I/O error — means no. That
// collapse is part of the contract, not an accident of error handling.
package fsutil

import "os"

// Exists reports whether a filesystem entry exists at path.
// Any stat error, including permission errors, yields false.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory, with the same
// error-collapse contract as Exists.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
