package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// DOT converts a workflow to Graphviz DOT format. Notes become note shapes
// without edges; dangling connections are skipped.
func DOT(doc *workflow.Document) string {
	var sb strings.Builder

	sb.WriteString("digraph workflow {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11, shape=box, style=\"rounded,filled\"];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if doc.Name != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		fmt.Fprintf(&sb, "    label=\"%s\";\n", escapeDOT(doc.Name))
		sb.WriteString("\n")
	}

	for _, n := range doc.Nodes {
		p := PaletteOf(n.Type)
		var attrs []string
		if n.Type == workflow.TypeNote {
			content := ""
			if n.Note != nil {
				content = n.Note.Content
			}
			attrs = append(attrs, "shape=note", "style=filled",
				fmt.Sprintf("label=\"%s\"", dotLines(strings.Split(content, "\n")...)))
		} else {
			label := []string{n.Name}
			if d := workflow.Describe(n); d != "" {
				label = append(label, d)
			}
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", dotLines(label...)))
		}
		attrs = append(attrs,
			fmt.Sprintf("fillcolor=\"%s\"", hex(p.Fill)),
			fmt.Sprintf("color=\"%s\"", hex(p.Stroke)))

		fmt.Fprintf(&sb, "    \"%s\" [%s];\n", escapeDOT(n.ID), strings.Join(attrs, ", "))
	}
	sb.WriteString("\n")

	for _, c := range workflow.LiveConnections(doc.Nodes, doc.Connections) {
		fmt.Fprintf(&sb, "    \"%s\" -> \"%s\";\n", escapeDOT(c.SourceID), escapeDOT(c.TargetID))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// dotLines escapes each line and joins them with DOT's centered newline.
func dotLines(lines ...string) string {
	for i, l := range lines {
		lines[i] = escapeDOT(l)
	}
	return strings.Join(lines, "\\n")
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
