package generator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/teemow/gdrivetoken/internal/config"
)

// FileSystem is the file access a generator run needs.
type FileSystem interface {
	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// Touch creates an empty file at path, or updates the modification
	// time of an existing file without changing its content.
	Touch(path string) error

	// Size returns the size of the file at path and whether it exists.
	Size(path string) (int64, bool, error)

	// Remove deletes the file at path.
	Remove(path string) error

	// Copy copies src to dst, replacing dst.
	Copy(src, dst string) error
}

// OSFileSystem implements FileSystem on the local disk.
type OSFileSystem struct{}

var (
	_ FileSystem      = OSFileSystem{}
	_ config.DirMaker = OSFileSystem{}
)

func (OSFileSystem) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return nil
}

func (OSFileSystem) Touch(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		return fmt.Errorf("failed to touch %s: %w", path, err)
	}
	return nil
}

func (OSFileSystem) Size(path string) (int64, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return info.Size(), true, nil
}

func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (OSFileSystem) Copy(src, dst string) (err error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	if dstInfo, statErr := os.Stat(dst); statErr == nil && os.SameFile(srcInfo, dstInfo) {
		return ErrSameFile
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
