// internal/builder/assets.go
package builder

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	errs "notionsite/internal/errors"
)

// mirrorAssets replaces dst with a full copy of src. Assets are never diffed.
func mirrorAssets(src, dst string) error {
	if err := os.RemoveAll(dst); err != nil {
		return errs.FileSystemError(err, "failed to remove old assets").WithContext("path", dst).Build()
	}
	if _, err := os.Stat(src); err != nil {
		return errs.FileSystemError(err, "assets directory missing").WithContext("path", src).Build()
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0755)
		}
		if err := copyFile(path, dest); err != nil {
			return errs.FileSystemError(err, "failed to copy asset").WithContext("path", path).Build()
		}
		return nil
	})
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	dst, err := os.OpenFile(to, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
