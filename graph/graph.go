// Package graph builds attributed directed graphs from dependency parses
// and publishes them for downstream graph consumers.
package graph

import (
	"sort"

	"github.com/c360studio/depgraph/depparse"
)

// Attribute keys assigned to nodes and edges.
const (
	// AttrWord is the surface form of a word node.
	AttrWord = "word"

	// AttrTag is the part-of-speech tag of a word node.
	AttrTag = "tag"

	// AttrType is the relation label of an edge.
	AttrType = "type"
)

// Node is one graph node: a word index with its attributes. The super-root
// sentinel node carries no attributes.
type Node struct {
	Index int
	Attrs map[string]string
}

// Edge is one directed attributed edge from governor to dependent.
type Edge struct {
	From  int
	To    int
	Attrs map[string]string
}

// Graph is the attributed directed graph of one dependency parse. It is
// derived data: rebuilt from the parse every time it is needed and never
// mutated after Build returns. The parse stays the system of record.
type Graph struct {
	nodes map[int]*Node
	edges []Edge
	succ  map[int][]int
}

// Build constructs the graph for a parse. The node set is the union of all
// edge endpoints and all word indices; word nodes get word and tag
// attributes, each edge gets a type attribute. Edges keep insertion order.
// Parses violating the depparse invariants produce an undefined graph.
func Build(p depparse.DependencyParse) *Graph {
	g := &Graph{
		nodes: make(map[int]*Node, p.Len()+1),
		edges: make([]Edge, 0, len(p.Edges)),
		succ:  make(map[int][]int),
	}

	for i, w := range p.Words {
		g.nodes[i] = &Node{
			Index: i,
			Attrs: map[string]string{AttrWord: w, AttrTag: p.Tags[i]},
		}
	}

	for _, e := range p.Edges {
		g.ensure(e.Governor)
		g.ensure(e.Dependent)
		g.edges = append(g.edges, Edge{
			From:  e.Governor,
			To:    e.Dependent,
			Attrs: map[string]string{AttrType: e.Relation},
		})
		g.succ[e.Governor] = append(g.succ[e.Governor], e.Dependent)
	}

	return g
}

// ensure adds a bare node for an edge endpoint outside the word range,
// which is how the super-root sentinel enters the node set.
func (g *Graph) ensure(index int) {
	if _, ok := g.nodes[index]; !ok {
		g.nodes[index] = &Node{Index: index, Attrs: map[string]string{}}
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Node returns the node at the given index, or nil if absent.
func (g *Graph) Node(index int) *Node {
	return g.nodes[index]
}

// Nodes returns all nodes in ascending index order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Index < nodes[j].Index })
	return nodes
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Successors returns the direct dependents of a node, in edge order.
func (g *Graph) Successors(index int) []int {
	return g.succ[index]
}

// Reachable returns the set of nodes reachable from the given index by
// following edges forward, including the start node when it exists.
func (g *Graph) Reachable(from int) map[int]bool {
	seen := make(map[int]bool)
	if _, ok := g.nodes[from]; !ok {
		return seen
	}

	queue := []int{from}
	seen[from] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// IsRooted reports whether every word node is reachable from the super-root
// sentinel. Parses that kept a cyclic structure through normalization fail
// this check, which is the detection hook for that case.
func (g *Graph) IsRooted() bool {
	reachable := g.Reachable(depparse.RootIndex)
	for index := range g.nodes {
		if index >= 0 && !reachable[index] {
			return false
		}
	}
	return true
}
