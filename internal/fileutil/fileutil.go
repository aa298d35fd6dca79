// Package fileutil provides the file operations behind the CLI: reading
// manifests from files or stdin and writing results atomically.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// StdinPath is the path argument that means standard input.
const StdinPath = "-"

var (
	// ErrSymlinkNotSupported indicates a symlink destination was refused.
	ErrSymlinkNotSupported = errors.New("symlinks are not supported")

	// ErrTooLarge indicates an input larger than the read limit.
	ErrTooLarge = errors.New("input too large")
)

// ReadInput reads path, or stdin when path is "-". At most limit bytes are
// accepted; a limit of zero or less means no limit.
func ReadInput(path string, stdin io.Reader, limit int64) ([]byte, error) {
	var r io.Reader
	name := path
	if path == StdinPath {
		r = stdin
		name = "stdin"
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err // Return unwrapped to preserve os.IsNotExist compatibility
		}
		defer f.Close()
		r = f
	}

	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", name, ErrTooLarge, limit)
	}
	return data, nil
}

// WriteFile writes data to dst with perm. It creates parent directories if
// needed and writes through a temp file renamed into place, so dst is never
// left partially written. Returns ErrSymlinkNotSupported if dst is a symlink.
func WriteFile(dst string, data []byte, perm os.FileMode) error {
	// Lstat doesn't follow symlinks
	if info, err := os.Lstat(dst); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%s: %w", dst, ErrSymlinkNotSupported)
	}

	// Create parent directories if needed.
	dstDir := filepath.Dir(dst)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("create parent directories: %w", err)
	}

	// Create temp file in the same directory for atomic rename
	tmpFile, err := os.CreateTemp(dstDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Ensure cleanup on any failure
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	// Sync to ensure data is written to disk
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename to destination: %w", err)
	}

	success = true
	return nil
}
