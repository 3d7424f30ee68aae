package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// EnsureDir creates the directory path if it does not exist.
func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// RemoveIfExists deletes the file if present.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FileSize returns the size of path, or 0 when it cannot be read.
func FileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

// maxPublishAttempts bounds the numeric suffixes PublishFile tries.
const maxPublishAttempts = 1000

// PublishFile moves src to dst without ever replacing an existing file. When dst is
// taken, "name_1.ext", "name_2.ext", ... are tried. The name is reserved with an
// exclusive create before the rename, so concurrent callers never receive the same
// path. It returns the path src was moved to.
func PublishFile(src, dst string) (string, error) {
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return "", err
	}
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(dst, ext)
	for n := 0; n < maxPublishAttempts; n++ {
		candidate := dst
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		f, err := os.OpenFile(candidate, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		_ = f.Close()
		if err := os.Rename(src, candidate); err != nil {
			_ = os.Remove(candidate)
			return "", err
		}
		return candidate, nil
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", dst, maxPublishAttempts)
}

// SanitizeFilename cleans a string to be safe as a filename:
// - Replace spaces with underscores
// - Replace forbidden characters with underscores
// - Trim duplicated underscores
// - Truncate to maxRunes runes (200 when maxRunes <= 0)
func SanitizeFilename(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 200
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	s = strings.ReplaceAll(s, " ", "_")
	forbidden := `[]/\:*?"<>|#%{}$!@+^~` + "`" + `=&;`
	for _, r := range forbidden {
		s = strings.ReplaceAll(s, string(r), "_")
	}
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '_'
		}
		return r
	}, s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "._-")

	if utf8.RuneCountInString(s) > maxRunes {
		rs := []rune(s)
		s = strings.TrimRight(string(rs[:maxRunes]), "._-")
	}

	if s == "" {
		return "untitled"
	}
	return s
}
