// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrFileExists is the sentinel error wrapped by FileExistsError.
var ErrFileExists = errors.New("file already exists")

// FileExistsError is returned by SafeWrite when the destination holds different content.
type FileExistsError struct {
	Path string
}

// Error implements the error interface.
func (e *FileExistsError) Error() string {
	return fmt.Sprintf("%s already exists with different content", e.Path)
}

// Unwrap returns ErrFileExists for errors.Is() compatibility.
func (e *FileExistsError) Unwrap() error { return ErrFileExists }

// SafeWrite creates path with contents. It fails with FileExistsError when the file
// already exists with different content; identical content is left untouched.
func SafeWrite(path string, contents []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		existing, readErr := os.ReadFile(path)
		if readErr == nil && bytes.Equal(existing, contents) {
			return nil
		}
		return &FileExistsError{Path: path}
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(contents); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Overwrite writes contents to path, replacing any existing file. The content is
// written to a temporary file in the same directory first and renamed into place.
func Overwrite(path string, contents []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(contents); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
