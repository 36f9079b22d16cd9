package capguard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func isPermissionDenied(err error) bool {
	return errors.Is(err, os.ErrPermission)
}

// TestProtectDirectory mirrors cap.rs's protect_directory: while a DirCap
// is active, the directory and its files reject writes and new files;
// once released, normal access resumes.
func TestProtectDirectory(t *testing.T) {
	root := t.TempDir()
	file1 := filepath.Join(root, "file1")
	file2 := filepath.Join(root, "file2")
	file3 := filepath.Join(root, "file3")
	file4 := filepath.Join(root, "file4")
	for _, p := range []string{file1, file2, file3, file4} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	func() {
		dc, err := ForDir(root)
		if err != nil {
			t.Fatalf("ForDir: %v", err)
		}
		defer func() {
			guard, err := dc.Write()
			if err != nil {
				t.Fatalf("Write: %v", err)
			}
			guard.Close()
		}()

		if err := os.Remove(file1); !isPermissionDenied(err) {
			t.Fatalf("remove file1: got %v, want permission denied", err)
		}
		if err := os.WriteFile(filepath.Join(root, "file5"), nil, 0o644); !isPermissionDenied(err) {
			t.Fatalf("create file5: got %v, want permission denied", err)
		}
		if err := os.WriteFile(file2, []byte("test data"), 0o644); !isPermissionDenied(err) {
			t.Fatalf("write file2: got %v, want permission denied", err)
		}
	}()

	if err := os.WriteFile(file3, []byte("hihi, it works"), 0o644); err != nil {
		t.Fatalf("write file3 after release: %v", err)
	}
	if err := os.Remove(file4); err != nil {
		t.Fatalf("remove file4 after release: %v", err)
	}
}

// TestNonExistentDirectoryAndFile mirrors
// non_existent_directory_and_file: the capability infrastructure must
// handle a directory (and files within it) that do not exist yet.
func TestNonExistentDirectoryAndFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist-yet")

	dc, err := ForDir(root)
	if err != nil {
		t.Fatalf("ForDir: %v", err)
	}
	guard, err := dc.Write()
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	defer guard.Close()

	fileCap := guard.FileCap("non-existent-file-in-non-existent-dir")
	err = fileCap.WithWriteablePath(func(path string) error {
		if _, statErr := os.Stat(path); statErr == nil {
			t.Fatalf("expected %s not to exist", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithWriteablePath: %v", err)
	}

	if _, err := os.Stat(root); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s still not to exist, got err=%v", root, err)
	}
}

// TestNewlyCreatedFileIsProtected mirrors newly_created_file_is_protected:
// a file created while the guard is open becomes write-protected once the
// guard closes.
func TestNewlyCreatedFileIsProtected(t *testing.T) {
	root := t.TempDir()

	dc, err := ForDir(root)
	if err != nil {
		t.Fatalf("ForDir: %v", err)
	}

	path := filepath.Join(root, "new-file")
	func() {
		guard, err := dc.Write()
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		defer guard.Close()

		if err := os.WriteFile(path, []byte("initial"), 0o644); err != nil {
			t.Fatalf("create new file: %v", err)
		}
	}()

	if err := os.WriteFile(path, []byte("test data"), 0o644); !isPermissionDenied(err) {
		t.Fatalf("write after guard closed: got %v, want permission denied", err)
	}
}

// TestFileCapUnprotectsFile mirrors file_cap_unprotects_file: a FileCap
// only lifts protection for the duration of WithWriteablePath, and
// restores it both before and after.
func TestFileCapUnprotectsFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "target")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	func() {
		dc, err := ForDir(root)
		if err != nil {
			t.Fatalf("ForDir: %v", err)
		}
		guard, err := dc.Write()
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		defer guard.Close()

		fileCap := guard.FileCap("target")

		if err := os.WriteFile(path, []byte("test data"), 0o644); !isPermissionDenied(err) {
			t.Fatalf("write without going through FileCap: got %v, want permission denied", err)
		}

		err = fileCap.WithWriteablePath(func(p string) error {
			return os.WriteFile(p, []byte("success"), 0o644)
		})
		if err != nil {
			t.Fatalf("WithWriteablePath: %v", err)
		}

		if err := os.WriteFile(path, []byte("test data"), 0o644); !isPermissionDenied(err) {
			t.Fatalf("write outside WithWriteablePath: got %v, want permission denied", err)
		}
	}()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "success" {
		t.Fatalf("got %q, want %q", got, "success")
	}
}
