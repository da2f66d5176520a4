// Package preview renders a quick local approximation of a diagram without
// opening the draw.io viewer.
//
// The preview is a node-link sketch produced via Graphviz: containers become
// clusters, end nodes become boxes, edges become arrows. Layout here is
// Graphviz's own and intentionally does not reproduce the viewer geometry;
// the preview answers "did I wire the graph correctly", not "how will it
// look".
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mlenz/drawbridge/pkg/graph"
)

// ToDOT converts a diagram model to Graphviz DOT format. The resulting DOT
// string can be rendered using [RenderSVG] or [RenderPNG].
//
// Container nodes are emitted as subgraph clusters so nesting stays visible;
// end nodes are emitted as plain boxes labeled with the node label and its
// effective type.
func ToDOT(m *graph.Model) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	nested := make(map[string]bool)
	for _, n := range m.Nodes() {
		for _, c := range n.Children {
			nested[c.ID] = true
		}
	}

	for _, n := range m.Nodes() {
		if nested[n.ID] {
			continue
		}
		writeNode(&buf, n, 1)
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *graph.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	if n.EndNode || len(n.Children) == 0 {
		fmt.Fprintf(buf, "%s%q [label=%q];\n", pad, n.ID, n.Label+"\n"+n.Type)
		return
	}

	// Graphviz only treats subgraphs prefixed with "cluster" as drawn groups.
	fmt.Fprintf(buf, "%ssubgraph \"cluster_%s\" {\n", pad, n.ID)
	fmt.Fprintf(buf, "%s  label=%q;\n", pad, n.Label)
	fmt.Fprintf(buf, "%s  style=rounded;\n", pad)
	for _, c := range n.Children {
		writeNode(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s}\n", pad)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
