// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for file utility operations.
var (
	ErrInvalidUTF8    = errors.New("content is not valid UTF-8")
	ErrNotRegularFile = errors.New("not a regular file")
	ErrDirNotWritable = errors.New("directory is not writable")
)

// DirPermissions is used for directories this program creates.
const DirPermissions = 0o750 // rwxr-x---: owner full, group read+execute

// ReadUTF8File reads a regular file and checks that it decodes as UTF-8.
// Directories and other non-regular entries yield ErrNotRegularFile.
func ReadUTF8File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}

	content, err := os.ReadFile(path) // #nosec G304 -- path comes from a directory listing
	if err != nil {
		return "", err
	}
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%w: %s", ErrInvalidUTF8, path)
	}
	return string(content), nil
}

// EnsureWritableDir creates dir if needed and proves it is writable by
// creating and removing a probe file.
func EnsureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirNotWritable, dir, err)
	}

	probe, err := os.CreateTemp(dir, ".textprobe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDirNotWritable, dir, err)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "research" -> false (name)
//   - "./textprobe.yaml" -> true (relative path)
//   - "/etc/textprobe.yaml" -> true (absolute)
//   - "C:\textprobe.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsMarkdown returns true if the path has a .md or .markdown extension.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
