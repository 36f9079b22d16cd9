// Package nnerr defines the sentinel error kinds shared across the load/save
// paths, per the error handling design: NotFound is swallowed at load
// boundaries, everything else propagates.
package nnerr

import "errors"

var (
	// NotFound indicates a missing file or directory during load. Callers at
	// load boundaries treat this as "default empty value" and never surface
	// it further up.
	NotFound = errors.New("not found")

	// InvalidFormat indicates a parse or decoding failure.
	InvalidFormat = errors.New("invalid format")

	// InvalidReference indicates a reference to an object that does not
	// exist, e.g. a view naming an unknown tag template ID.
	InvalidReference = errors.New("invalid reference")

	// LockHeld indicates a startup lock file already exists.
	LockHeld = errors.New("lock held")
)
