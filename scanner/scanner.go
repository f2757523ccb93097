// Package scanner finds the source files to lint below a set of paths.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the C and C++ source and header extensions linted
// when none are configured.
var DefaultExtensions = []string{".cpp", ".hpp", ".h", ".c", ".cc", ".hh"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir     string
	extensions  []string
	ignorePaths []string
}

// New scans rootDir for files with one of the given extensions. The
// extensions may be written with or without their leading dot.
func New(rootDir string, extensions ...string) *Scanner {
	exts := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: exts,
	}
}

// Ignore skips paths matching any of the glob patterns. A pattern is
// matched against the path relative to the root and against each of its
// elements, so "build" skips every build directory.
func (s *Scanner) Ignore(patterns ...string) *Scanner {
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			s.ignorePaths = append(s.ignorePaths, filepath.ToSlash(p))
		}
	}
	return s
}

// Scan returns the matching files sorted by path. A root naming a single
// file yields that file when it is not ignored, whatever its extension.
func (s *Scanner) Scan() ([]FileInfo, error) {
	info, err := os.Stat(s.rootDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if s.isIgnored(filepath.Base(s.rootDir)) {
			return nil, nil
		}
		return []FileInfo{{Path: s.rootDir, Size: info.Size()}}, nil
	}

	var files []FileInfo
	err = filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(s.rootDir, path)
		if relErr != nil {
			rel = path
		}
		if rel != "." && s.isIgnored(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !s.isTargetFile(path) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: fi.Size()})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Accept reports whether a file found while watching would be scanned.
func (s *Scanner) Accept(path string) bool {
	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	return s.isTargetFile(path) && !s.isIgnored(rel)
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}

func (s *Scanner) isIgnored(rel string) bool {
	rel = filepath.ToSlash(rel)
	elems := strings.Split(rel, "/")
	for _, pattern := range s.ignorePaths {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.HasPrefix(rel, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
		for _, elem := range elems {
			if ok, _ := filepath.Match(pattern, elem); ok {
				return true
			}
		}
	}
	return false
}
