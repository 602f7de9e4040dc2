// Package render turns a mind-map document into Graphviz DOT and renders it
// to SVG or PNG for previews. Optimized node locations are emitted as pinned
// positions so the preview shows the annealed layout rather than a Graphviz
// one.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mindgrid/mindgrid/pkg/document"
	"github.com/mindgrid/mindgrid/pkg/mindmap"
)

// Options configures DOT generation.
type Options struct {
	// UsePositions pins every node to its document location (neato -n
	// semantics). When false, Graphviz lays the graph out itself.
	UsePositions bool
}

// dotScale converts editor coordinates to Graphviz inches.
const dotScale = 72.0

// ToDOT converts a document to Graphviz DOT. Styling (colors, edge width,
// text size, corner rounding) is carried from the document.
func ToDOT(doc *document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.UsePositions {
		buf.WriteString("  layout=neato;\n")
	}
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", colorHex(doc.BackgroundColor))
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=%.0f];\n",
		doc.TextSize)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=%.1f];\n",
		colorHex(doc.EdgeColor), doc.EdgeWidth)
	buf.WriteString("\n")

	for _, n := range doc.Nodes {
		attrs := nodeAttrs(n, opts)
		fmt.Fprintf(&buf, "  %d [%s];\n", n.Index, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		src, dst := e.SourceIndex, e.TargetIndex
		if e.Reversed {
			src, dst = dst, src
		}
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d -- %d;\n", src, dst)
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d [%s];\n", src, dst, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n mindmap.Node, opts Options) []string {
	label := n.Text
	if label == "" {
		label = fmt.Sprintf("#%d", n.Index)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	if opts.UsePositions {
		// Graphviz y grows upward, the editor's downward.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"",
			n.Location.X/dotScale, -n.Location.Y/dotScale))
	}
	if n.Size.W > 0 && n.Size.H > 0 {
		attrs = append(attrs,
			fmt.Sprintf("width=%.2f", n.Size.W/dotScale),
			fmt.Sprintf("height=%.2f", n.Size.H/dotScale),
			"fixedsize=true")
	}
	if n.Color != nil {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", colorHex(*n.Color)))
	}
	if n.TextColor != nil {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", colorHex(*n.TextColor)))
	}
	return attrs
}

func edgeAttrs(e mindmap.Edge) []string {
	var attrs []string
	if e.Text != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Text))
	}
	switch e.ArrowMode {
	case mindmap.ArrowSingle:
		attrs = append(attrs, "dir=forward")
	case mindmap.ArrowDouble:
		attrs = append(attrs, "dir=both")
	case mindmap.ArrowHidden:
		// undirected edge line, no arrowheads
	}
	return attrs
}

func colorHex(c mindmap.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
