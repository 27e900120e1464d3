package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/depgraph/depparse"
)

// WriteDOT renders the graph in Graphviz DOT form. Nodes are labeled
// word/tag with the super-root drawn as a diamond; edges carry the relation
// label. Output is deterministic: nodes in index order, edges in insertion
// order.
func WriteDOT(w io.Writer, g *Graph) error {
	var sb strings.Builder

	sb.WriteString("digraph dependencies {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box];\n")

	for _, n := range g.Nodes() {
		if n.Index == depparse.RootIndex {
			sb.WriteString(fmt.Sprintf("    %q [label=\"ROOT\", shape=diamond];\n", nodeID(n.Index)))
			continue
		}
		label := escapeDOTLabel(n.Attrs[AttrWord] + "/" + n.Attrs[AttrTag])
		sb.WriteString(fmt.Sprintf("    %q [label=\"%s\"];\n", nodeID(n.Index), label))
	}

	for _, e := range g.Edges() {
		sb.WriteString(fmt.Sprintf("    %q -> %q [label=\"%s\"];\n",
			nodeID(e.From), nodeID(e.To), escapeDOTLabel(e.Attrs[AttrType])))
	}

	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func nodeID(index int) string {
	if index == depparse.RootIndex {
		return "root"
	}
	return fmt.Sprintf("w%d", index)
}

// escapeDOTLabel escapes quotes and backslashes for DOT label strings.
func escapeDOTLabel(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
