// Package scan discovers the Go source files a CLI invocation should track,
// grounded on scanner.Scanner: walk a root, filter by
// extension, collect size alongside path.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FileInfo is one discovered source file, path relative to the workspace
// root it was discovered under.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a root directory collecting files with one of a fixed set
// of extensions. An empty extension list matches every regular file.
// Reported paths are relative to root, the form workspace.Workspace and
// scheduler.RunToFixpoint expect.
type Scanner struct {
	root       string
	extensions []string
}

// New builds a Scanner rooted at root. Go reduction only ever tracks
// ".go" files, but the extension list stays pluggable the way
// scanner.New does, since a direct-compiler-mode run may point at a
// single non-.go input file that still needs to be size-reported.
func New(root string, extensions ...string) *Scanner {
	return &Scanner{root: root, extensions: extensions}
}

// Scan returns every matching file under root, sorted by relative path. A
// single file path (rather than a directory) as root returns that one
// file if it matches, mirroring a direct-compiler-mode invocation naming
// one input; its Path is then the file's base name, i.e. relative to the
// directory that contains it.
func (s *Scanner) Scan() ([]FileInfo, error) {
	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("scan: stat %s: %w", s.root, err)
	}
	if !info.IsDir() {
		if !s.isTargetFile(s.root) {
			return nil, nil
		}
		return []FileInfo{{Path: filepath.Base(s.root), Size: info.Size()}}, nil
	}

	var files []FileInfo

	err = filepath.Walk(s.root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		if !s.isTargetFile(path) {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}

		files = append(files, FileInfo{Path: rel, Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", s.root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (s *Scanner) isTargetFile(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, want := range s.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Paths extracts just the Path field from files, the shape RunToFixpoint
// expects for its tracked-file list.
func Paths(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}
