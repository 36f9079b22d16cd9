// Package capguard protects the contents of a directory from external
// modification while still allowing vetted access from within the
// program. A DirCap write-protects a directory (and, non-recursively,
// the files directly in it) on creation; Write grants temporary write
// access, restoring read-only protection once the returned WriteGuard is
// closed.
package capguard

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const userWrite = 0o200

func readOnly(mode fs.FileMode) fs.FileMode { return mode &^ userWrite }
func writeable(mode fs.FileMode) fs.FileMode { return mode | userWrite }

// changeItemPermissions adjusts the mode of the item at path. It succeeds
// without doing anything if the path does not exist.
func changeItemPermissions(path string, f func(fs.FileMode) fs.FileMode) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("retrieving metadata for %s: %w", path, err)
	}

	mode := info.Mode()
	newMode := f(mode)
	if newMode == mode {
		return nil
	}
	if err := os.Chmod(path, newMode); err != nil {
		return fmt.Errorf("adjusting permissions of %s: %w", path, err)
	}
	return nil
}

// changeDirectoryPermissions adjusts the mode of directory and, for files
// directly contained in it (not sub-directories — this does not recurse),
// each file's mode as well.
func changeDirectoryPermissions(directory string, f func(fs.FileMode) fs.FileMode) error {
	if err := changeItemPermissions(directory, f); err != nil {
		return err
	}

	entries, err := os.ReadDir(directory)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading contents of directory %s: %w", directory, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := changeItemPermissions(filepath.Join(directory, entry.Name()), f); err != nil {
			return err
		}
	}
	return nil
}

// DirCap is a capability to a directory: it removes write access from the
// directory and the files directly in it on creation, and only a
// WriteGuard obtained through Write can temporarily lift that protection.
//
// By design a non-existent directory is handled gracefully: protecting
// and unprotecting it are both no-ops.
type DirCap struct {
	directory string
}

// ForDir creates a DirCap for the given directory, write-protecting it
// immediately.
func ForDir(directory string) (*DirCap, error) {
	dc := &DirCap{directory: directory}
	if err := dc.protect(); err != nil {
		return nil, err
	}
	return dc, nil
}

func (c *DirCap) protect() error {
	return changeDirectoryPermissions(c.directory, readOnly)
}

func (c *DirCap) unprotect() error {
	return changeDirectoryPermissions(c.directory, writeable)
}

// Unprotect permanently restores user-write on the directory and the
// files directly in it. Intended for program shutdown, where the
// protection a DirCap otherwise maintains for the process's lifetime
// should be released so the directory is left in the state the user
// had it in before the program ran. Errors are logged, not returned,
// since there is no further recovery action a caller could take.
func (c *DirCap) Unprotect() {
	if err := c.unprotect(); err != nil {
		slog.Warn("[CAPGUARD] failed to restore directory permissions", "dir", c.directory, "error", err)
	}
}

// Path returns the directory this capability refers to.
func (c *DirCap) Path() string { return c.directory }

// Write opens the directory to write operations, returning a WriteGuard
// that must be closed to restore read-only protection. Close runs the
// restoration on a separate goroutine and waits for it to finish before
// returning; any failure is logged, not returned and not panicked on.
func (c *DirCap) Write() (*WriteGuard, error) {
	if err := changeItemPermissions(c.directory, writeable); err != nil {
		return nil, err
	}
	return &WriteGuard{dirCap: c}, nil
}

// Close restores write-protection over the directory and all files
// directly in it, which covers any file created while the guard was
// open. Safe to call from a deferred statement.
func (g *WriteGuard) Close() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := changeDirectoryPermissions(g.dirCap.directory, readOnly); err != nil {
			slog.Warn("[CAPGUARD] failed to restore directory protection", "dir", g.dirCap.directory, "error", err)
		}
	}()
	<-done
}

// WriteGuard grants temporary write access to the directory behind a
// DirCap. Call Close (typically via defer) to restore protection.
type WriteGuard struct {
	dirCap *DirCap
}

// FileCap returns a capability to the named file within the guarded
// directory.
func (g *WriteGuard) FileCap(name string) *FileCap {
	return &FileCap{path: filepath.Join(g.dirCap.directory, name)}
}

// FileCap is a capability to do something with a single file: its path
// is made writeable only for the duration of WithWriteablePath.
type FileCap struct {
	path string
}

// Path returns the path this capability refers to.
func (f *FileCap) Path() string { return f.path }

// WithWriteablePath makes the file writeable, invokes fn with its path,
// then restores read-only protection regardless of fn's outcome.
func (f *FileCap) WithWriteablePath(fn func(path string) error) error {
	if err := changeItemPermissions(f.path, writeable); err != nil {
		return err
	}

	callErr := fn(f.path)
	restoreErr := changeItemPermissions(f.path, readOnly)

	switch {
	case callErr == nil && restoreErr == nil:
		return nil
	case callErr == nil:
		return fmt.Errorf("reverting permissions of %s: %w", f.path, restoreErr)
	case restoreErr == nil:
		return callErr
	default:
		slog.Warn("[CAPGUARD] failed to revert permissions after failed write", "path", f.path, "error", restoreErr)
		return callErr
	}
}
