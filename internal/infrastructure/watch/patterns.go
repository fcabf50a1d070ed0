package watch

import (
	"path/filepath"
	"strings"
)

// FileFilter decides which files in the watched folder are deal documents.
type FileFilter struct {
	Extensions []string // lower case, with the leading dot
	Exclude    []string // globs matched against the base name
}

// DefaultFileFilter accepts .txt files and skips hidden and editor files.
func DefaultFileFilter() *FileFilter {
	return &FileFilter{
		Extensions: []string{".txt"},
		Exclude:    []string{".*", "*~", "*.swp", "*.tmp"},
	}
}

// Matches reports whether path is a deal document.
func (f *FileFilter) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, want := range f.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}
