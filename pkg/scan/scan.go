// Package scan walks a document tree and collects Markdown file paths.
//
// The walk is depth-first in directory-listing order and uses an explicit
// stack, so pathologically deep trees cannot exhaust the call stack. Hidden
// entries and well-known non-content directories are never entered.
//
// Only a failure to list the root is fatal; unreadable subdirectories are
// logged and skipped.
package scan

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docgraph/pkg/docs"
	"github.com/matzehuels/docgraph/pkg/errors"
	"github.com/matzehuels/docgraph/pkg/source"
)

// SkippedDirs are directory names that never contain user documents.
var SkippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"target":           true,
	"coverage":         true,
	"__pycache__":      true,
	"venv":             true,
	".git":             true,
	".svn":             true,
	".hg":              true,
	".next":            true,
	".cache":           true,
}

// Scanner enumerates documents beneath a root directory.
type Scanner struct {
	FS     source.FileSystem
	Logger *log.Logger

	// OnDirectory, if set, is called after each directory is listed
	// successfully with the running count of visited directories.
	OnDirectory func(visited int, dir string)
}

// New creates a scanner over fsys. A nil logger discards output.
func New(fsys source.FileSystem, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scanner{FS: fsys, Logger: logger}
}

// frame is one directory being iterated on the explicit stack.
type frame struct {
	entries []source.Entry
	next    int
}

// Scan returns the slash-separated paths, relative to root, of every document
// beneath root. Order follows the directory listings; callers needing a
// stable order must sort.
func (s *Scanner) Scan(root string) ([]string, error) {
	logger := s.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	rootEntries, err := s.FS.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRootUnreadable, err, "read directory %s", root)
	}

	visited := map[string]bool{root: true}
	listed := 1
	s.visit(listed, root)

	var files []string
	stack := []*frame{{entries: rootEntries}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++

		if IsHidden(entry.Name) {
			continue
		}

		if entry.IsDir {
			if SkippedDirs[entry.Name] || visited[entry.FullPath] {
				continue
			}
			visited[entry.FullPath] = true

			children, err := s.FS.ReadDir(entry.FullPath)
			if err != nil {
				logger.Warn("skipping unreadable directory", "path", entry.FullPath, "err", err)
				continue
			}
			listed++
			s.visit(listed, entry.FullPath)
			stack = append(stack, &frame{entries: children})
			continue
		}

		if !IsDocument(entry.Name) {
			continue
		}
		rel, err := s.FS.Rel(root, entry.FullPath)
		if err != nil {
			logger.Warn("skipping file outside root", "path", entry.FullPath, "err", err)
			continue
		}
		files = append(files, rel)
	}

	logger.Debug("scan complete", "root", root, "directories", listed, "documents", len(files))
	return files, nil
}

func (s *Scanner) visit(count int, dir string) {
	if s.OnDirectory != nil {
		s.OnDirectory(count, dir)
	}
}

// IsHidden reports whether a file or directory name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsDocument reports whether name has the document extension.
func IsDocument(name string) bool {
	return strings.EqualFold(extOf(name), docs.DocumentExt)
}

func extOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
