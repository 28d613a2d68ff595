// Package cache persists the merged component pool and the source
// fingerprint on disk. The component store is a SQLite database with a
// schema-version row; the fingerprint is a small versioned JSON file. All
// writes go through a temp file plus rename so a crash mid-write never
// corrupts the previous valid state.
package cache

import (
	"errors"
	"fmt"
)

// ErrVersionMismatch marks an on-disk cache whose schema version this
// build does not understand. Callers treat it exactly like "no cache
// present" and rebuild; it never crashes a refresh.
var ErrVersionMismatch = errors.New("cache schema version mismatch")

// WriteError is a failure to persist the cache or fingerprint, for
// example an unwritable target directory. It is fatal to the refresh
// operation and distinguishable so front-ends can suggest retrying with
// appropriate privileges.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write cache data to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
