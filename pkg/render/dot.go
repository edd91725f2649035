package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/halgraph/pkg/graph"
)

const (
	groupHeaderColor = "#FFD75E"
	titlePort        = "title"
	signalPort       = "signame"
)

// ToDOT serializes a document to Graphviz DOT. The output is deterministic:
// graph attributes, then every node, then every edge, each in document order.
func ToDOT(doc *graph.Document) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(doc.Name))
	if len(doc.Attrs) > 0 {
		fmt.Fprintf(&buf, "  graph [%s];\n", fmtAttrs(doc.Attrs))
	}

	if len(doc.Nodes) > 0 {
		buf.WriteString("\n")
	}
	for _, n := range doc.Nodes {
		fmt.Fprintf(&buf, "  %s [label=<%s>, shape=none];\n", quote(n.ID), nodeLabel(n))
	}

	if len(doc.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range doc.Edges {
		fmt.Fprintf(&buf, "  %s -> %s", endpoint(e.From), endpoint(e.To))
		if len(e.Attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", fmtAttrs(e.Attrs))
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n graph.Node) string {
	var b strings.Builder
	b.WriteString(`<table border="0" cellspacing="0">`)
	switch n.Kind {
	case graph.KindGroup:
		fmt.Fprintf(&b, "\n  <tr><td port=%q border=\"1\" bgcolor=%q>%s</td></tr>", titlePort, groupHeaderColor, html.EscapeString(n.Label))
		for _, r := range n.Rows {
			fmt.Fprintf(&b, "\n  <tr><td port=%q border=\"1\">%s</td></tr>", r.Port, html.EscapeString(r.Label))
		}
	default:
		fmt.Fprintf(&b, "\n  <tr><td port=%q border=\"1\">%s</td></tr>", signalPort, html.EscapeString(n.Label))
		fmt.Fprintf(&b, "\n  <tr><td border=\"0\">(%s)</td></tr>", html.EscapeString(n.Value))
	}
	b.WriteString("\n</table>")
	return b.String()
}

func endpoint(e graph.Endpoint) string {
	if e.Port == "" {
		return quote(e.Node)
	}
	return quote(e.Node) + ":" + quote(e.Port)
}

func fmtAttrs(attrs []graph.Attr) string {
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Key + "=" + quote(a.Value)
	}
	return strings.Join(parts, ", ")
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote returns s as a DOT double-quoted string. Backslashes are doubled so a
// trailing one cannot swallow the closing quote.
func quote(s string) string {
	return `"` + quoteReplacer.Replace(s) + `"`
}
