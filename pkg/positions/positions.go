// Package positions remembers node positions per graph so a view can be
// re-entered without re-running layout.
//
// A [Store] is an explicit instance owned by the host and passed to whatever
// needs it; there is no package-level state. Keys are independent: restoring
// under one key never sees another key's data.
package positions

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/matzehuels/docgraph/pkg/layout"
)

// Store maps a graph key to the last saved position of each node id.
// It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]layout.Point
}

// New creates an empty store.
func New() *Store {
	return &Store{data: map[string]map[string]layout.Point{}}
}

// Key derives a store key from a document root.
func Key(rootPath string) string {
	if abs, err := filepath.Abs(rootPath); err == nil {
		return abs
	}
	return filepath.Clean(rootPath)
}

// Save replaces the positions stored under key with those of nodes.
func (s *Store) Save(key string, nodes []layout.Node) {
	m := make(map[string]layout.Point, len(nodes))
	for _, n := range nodes {
		m[n.ID] = layout.Point{X: n.X, Y: n.Y}
	}
	s.Put(key, m)
}

// Put replaces the positions stored under key. The map is copied.
func (s *Store) Put(key string, points map[string]layout.Point) {
	m := make(map[string]layout.Point, len(points))
	for id, p := range points {
		m[id] = p
	}
	s.mu.Lock()
	s.data[key] = m
	s.mu.Unlock()
}

// Get returns a copy of the positions stored under key.
func (s *Store) Get(key string) (map[string]layout.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]layout.Point, len(m))
	for id, p := range m {
		out[id] = p
	}
	return out, true
}

// Restore returns a copy of nodes with stored positions applied. Nodes
// without a stored position keep theirs.
func (s *Store) Restore(key string, nodes []layout.Node) []layout.Node {
	out := layout.Clone(nodes)

	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.data[key]
	for i := range out {
		if p, ok := m[out[i].ID]; ok {
			out[i].X, out[i].Y = p.X, p.Y
			out[i].HasPosition = true
		}
	}
	return out
}

// Clear drops everything stored under key.
func (s *Store) Clear(key string) {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
}

// Has reports whether key has saved positions.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
