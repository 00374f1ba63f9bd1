package source

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory FileSystem. Directories are implied by file paths.
// Failures can be injected per path with FailDir, FailRead and FailStat, and
// SetSize overrides the size Stat reports.
//
// Paths are slash-separated; a leading "/" is optional.
type Memory struct {
	mu        sync.RWMutex
	files     map[string][]byte
	sizes     map[string]int64
	dirs      map[string]bool
	failDir   map[string]error
	failRead  map[string]error
	failStat  map[string]error
	modified  time.Time
	listOrder map[string][]string
}

// NewMemory creates a filesystem holding files (path -> content).
func NewMemory(files map[string]string) *Memory {
	m := &Memory{
		files:     map[string][]byte{},
		sizes:     map[string]int64{},
		dirs:      map[string]bool{"/": true},
		failDir:   map[string]error{},
		failRead:  map[string]error{},
		failStat:  map[string]error{},
		modified:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		listOrder: map[string][]string{},
	}
	for p, content := range files {
		m.WriteFile(p, content)
	}
	return m
}

// WriteFile adds or replaces a file, creating its parent directories.
func (m *Memory) WriteFile(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = clean(p)
	m.files[p] = []byte(content)
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" {
			break
		}
	}
}

// Mkdir adds an empty directory.
func (m *Memory) Mkdir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for dir := clean(p); ; dir = path.Dir(dir) {
		m.dirs[dir] = true
		if dir == "/" {
			break
		}
	}
}

// SetSize makes Stat report size for p regardless of its content length.
func (m *Memory) SetSize(p string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[clean(p)] = size
}

// SetOrder fixes the listing order of a directory's entries by name.
// Unlisted entries follow in lexical order.
func (m *Memory) SetOrder(dir string, names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listOrder[clean(dir)] = names
}

// FailDir makes ReadDir(p) return err.
func (m *Memory) FailDir(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failDir[clean(p)] = err
}

// FailRead makes ReadFile(p) return err.
func (m *Memory) FailRead(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRead[clean(p)] = err
}

// FailStat makes Stat(p) return err.
func (m *Memory) FailStat(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failStat[clean(p)] = err
}

// ReadDir lists the direct children of p.
func (m *Memory) ReadDir(p string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = clean(p)
	if err := m.failDir[p]; err != nil {
		return nil, err
	}
	if !m.dirs[p] {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	children := map[string]bool{}
	for f := range m.files {
		if name, isDir, ok := child(p, f); ok {
			children[name] = children[name] || isDir
		}
	}
	for d := range m.dirs {
		if name, _, ok := child(p, d); ok && d != p {
			children[name] = true
		}
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)
	names = applyOrder(names, m.listOrder[p])

	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{Name: name, IsDir: children[name], FullPath: path.Join(p, name)})
	}
	return out, nil
}

// ReadFile returns a copy of the file content.
func (m *Memory) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = clean(p)
	if err := m.failRead[p]; err != nil {
		return nil, err
	}
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: p, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// Stat reports the file size (or the SetSize override).
func (m *Memory) Stat(p string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = clean(p)
	if err := m.failStat[p]; err != nil {
		return FileInfo{}, err
	}
	data, ok := m.files[p]
	if !ok {
		if m.dirs[p] {
			return FileInfo{CreatedAt: m.modified, ModifiedAt: m.modified}, nil
		}
		return FileInfo{}, &fs.PathError{Op: "stat", Path: p, Err: fs.ErrNotExist}
	}
	size := int64(len(data))
	if s, ok := m.sizes[p]; ok {
		size = s
	}
	return FileInfo{Size: size, CreatedAt: m.modified, ModifiedAt: m.modified}, nil
}

// Join joins slash-separated elements.
func (m *Memory) Join(elem ...string) string { return path.Join(elem...) }

// Rel returns target relative to base.
func (m *Memory) Rel(base, target string) (string, error) {
	base, target = clean(base), clean(target)
	if base == "/" {
		return strings.TrimPrefix(target, "/"), nil
	}
	if target == base {
		return ".", nil
	}
	if !strings.HasPrefix(target, base+"/") {
		return "", fmt.Errorf("%s is not under %s", target, base)
	}
	return strings.TrimPrefix(target, base+"/"), nil
}

func clean(p string) string {
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

// child reports whether full lies under dir and returns the first path
// element below dir, plus whether more elements follow it.
func child(dir, full string) (string, bool, bool) {
	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	if !strings.HasPrefix(full, prefix) || full == dir {
		return "", false, false
	}
	rest := strings.TrimPrefix(full, prefix)
	name, _, more := strings.Cut(rest, "/")
	return name, more, true
}

func applyOrder(names, order []string) []string {
	if len(order) == 0 {
		return names
	}
	present := map[string]bool{}
	for _, n := range names {
		present[n] = true
	}
	out := make([]string, 0, len(names))
	used := map[string]bool{}
	for _, n := range order {
		if present[n] && !used[n] {
			out = append(out, n)
			used[n] = true
		}
	}
	for _, n := range names {
		if !used[n] {
			out = append(out, n)
		}
	}
	return out
}

var _ FileSystem = (*Memory)(nil)
