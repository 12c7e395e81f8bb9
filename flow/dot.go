// Package flow holds control flow graph of a traced program and knows how to
// have it laid out by Graphviz.
package flow

import (
	"bytes"
	"fmt"
	"strings"
)

// Node is a single block of the flow chart.
type Node struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	// Shape is Graphviz shape name, "box" when empty.
	Shape string `yaml:"shape,omitempty"`
}

// Edge is a transition between two nodes, Label is usually branch condition.
type Edge struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label,omitempty"`
}

// Graph is control flow graph as produced by flow chart extractor.
type Graph struct {
	Nodes []Node `yaml:"nodes"`
	Edges []Edge `yaml:"edges"`
}

// Fixed look of the flow chart, the rest of the diagram uses the same fonts.
const (
	graphAttrs = `bgcolor="transparent" nodesep=0.3 ranksep=0.4`
	nodeAttrs  = `fontname="monospace" fontsize=12 style=filled fillcolor="#d6d6d6" color="#3c3c3c"`
	edgeAttrs  = `fontname="monospace" fontsize=10 color="#3c3c3c"`
)

// DOT writes graph in Graphviz DOT language. Output depends only on the
// graph, nodes and edges are written in declaration order.
func (g *Graph) DOT() ([]byte, error) {
	known := make(map[string]bool, len(g.Nodes))

	buf := new(bytes.Buffer)
	buf.WriteString("digraph flow {\n")
	fmt.Fprintf(buf, "    graph [%s];\n", graphAttrs)
	fmt.Fprintf(buf, "    node [%s];\n", nodeAttrs)
	fmt.Fprintf(buf, "    edge [%s];\n", edgeAttrs)

	for _, n := range g.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("flow node without id (label %q)", n.Label)
		}
		if known[n.ID] {
			return nil, fmt.Errorf("duplicate flow node id %q", n.ID)
		}
		known[n.ID] = true

		shape := n.Shape
		if shape == "" {
			shape = "box"
		}
		fmt.Fprintf(buf, "    %s [label=%s shape=%s];\n", quote(n.ID), quote(n.Label), quote(shape))
	}

	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			return nil, fmt.Errorf("flow edge %q -> %q references unknown node", e.From, e.To)
		}
		if e.Label == "" {
			fmt.Fprintf(buf, "    %s -> %s;\n", quote(e.From), quote(e.To))
			continue
		}
		fmt.Fprintf(buf, "    %s -> %s [label=%s];\n", quote(e.From), quote(e.To), quote(e.Label))
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
