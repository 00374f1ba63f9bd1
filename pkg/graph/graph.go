package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// ContentBytes serializes only the structural content of g (nodes, edges and
// counts), leaving out build ids and timings, so identical trees hash equal.
func ContentBytes(g *Graph) ([]byte, error) {
	content := struct {
		Nodes           []Node `json:"nodes"`
		Edges           []Edge `json:"edges"`
		TotalDocuments  int    `json:"total_documents"`
		LoadedDocuments int    `json:"loaded_documents"`
	}{g.Nodes, g.Edges, g.TotalDocuments, g.LoadedDocuments}
	return json.Marshal(content)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := Validate(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks the structural invariants of a decoded graph: node payloads
// match their kind, ids are unique, and no edge dangles.
func Validate(g *Graph) error {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if ids[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
		if !IsDocumentNode(n) && !IsExternalLinkNode(n) {
			return fmt.Errorf("node %q: payload does not match kind %q", n.ID, n.Kind)
		}
	}
	for _, e := range g.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("edge %s→%s references unknown node", e.Source, e.Target)
		}
	}
	if g.LoadedDocuments > g.TotalDocuments {
		return fmt.Errorf("loaded documents (%d) exceed total (%d)", g.LoadedDocuments, g.TotalDocuments)
	}
	return nil
}
