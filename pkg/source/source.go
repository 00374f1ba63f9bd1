// Package source defines the filesystem collaborator used by the scanner and
// graph builder, with an OS-backed implementation and an in-memory one.
//
// The builder never touches the os package directly; everything goes through
// [FileSystem] so tests can inject unreadable directories, null reads or
// oversized files without creating them on disk.
package source

import (
	"errors"
	"time"
)

// ErrNoContent is returned by ReadFile when a file exists but yields no
// content. The builder treats it like any other read failure.
var ErrNoContent = errors.New("no content")

// Entry is one item of a directory listing.
type Entry struct {
	Name     string
	IsDir    bool
	FullPath string
}

// FileInfo is the subset of stat data the builder uses.
type FileInfo struct {
	Size       int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// FileSystem lists directories, reads files and stats them.
// Paths are in the implementation's native form; FullPath values returned by
// ReadDir can be passed straight back to any method.
type FileSystem interface {
	ReadDir(path string) ([]Entry, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
	// Join builds a child path the way ReadDir builds FullPath.
	Join(elem ...string) string
	// Rel returns target relative to base, slash-separated.
	Rel(base, target string) (string, error)
}
