package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scanner scans for source files with the tracked extension
type Scanner struct {
	extension      string
	skipDirs       map[string]bool
	ignorePatterns []string
}

// NewScanner creates a new Scanner. skipDirs are directory names skipped
// anywhere in the tree; ignorePatterns are doublestar globs matched against
// the path relative to the scan root.
func NewScanner(extension string, skipDirs []string, ignorePatterns []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{
		extension:      extension,
		skipDirs:       skipMap,
		ignorePatterns: ignorePatterns,
	}
}

// Scan finds all tracked source files under root, returning absolute paths.
func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories (starting with .)
			if strings.HasPrefix(name, ".") && name != "." && name != ".." {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), s.extension) {
			return nil
		}

		if s.ignored(root, path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		files = append(files, abs)
		return nil
	})

	return files, err
}

// SkipsDir reports whether a directory with the given base name is excluded
// from scanning and watching.
func (s *Scanner) SkipsDir(name string) bool {
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return s.skipDirs[name]
}

// Tracks reports whether the given path is a source file the scanner would
// pick up (used by the watch bridge to gate events).
func (s *Scanner) Tracks(path string) bool {
	if !strings.HasSuffix(path, s.extension) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if s.skipDirs[part] {
			return false
		}
	}
	return true
}

func (s *Scanner) ignored(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range s.ignorePatterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
