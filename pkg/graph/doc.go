// Package graph defines the document graph produced by a build and its JSON
// serialization.
//
// # Core Types
//
//   - [Node]: tagged union of a [Document] (one parsed file) or an
//     [ExternalLink] (one aggregated domain), discriminated by [NodeKind]
//   - [Edge]: directed link typed [EdgeInternal] or [EdgeExternal]
//   - [Graph]: nodes, edges, pagination counters and cached external data
//
// Use [IsDocumentNode] and [IsExternalLinkNode] at component boundaries
// instead of inspecting the payload pointers directly.
//
// # Serialization
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	graph.WriteGraphFile(g, "graph.json")        // Graph → File
//	data, _ := graph.MarshalGraph(g)             // Graph → []byte
//
// Decoding validates that every edge refers to a node in the graph.
//
// # Concurrency
//
// Graph values are not mutated after a build returns and are safe for
// concurrent reads.
package graph
