package util

import (
	"path/filepath"
	"strings"
)

// WebPath turns a file path inside outputDir into the slash-separated,
// directory-relative link used from pages at the top of outputDir. For
// example build/media/ab12-photo.jpg becomes media/ab12-photo.jpg. Paths
// outside outputDir are returned slash-separated but otherwise unchanged.
func WebPath(outputDir, path string) string {
	rel, err := filepath.Rel(outputDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
