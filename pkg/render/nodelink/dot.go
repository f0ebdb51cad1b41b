package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bundledeps/pkg/analysis"
	"github.com/matzehuels/bundledeps/pkg/dependency"
	"github.com/matzehuels/bundledeps/pkg/modgraph"
	"github.com/matzehuels/bundledeps/pkg/render"
)

// Options configures diagram generation.
type Options struct {
	// Report marks edges with diagnostics. May be nil.
	Report *analysis.Report
	// Runtime is passed to ReferencedExports for edge labels.
	Runtime dependency.RuntimeSpec
	// Detailed adds the referenced exports to edge labels.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT source. Output order follows module and
// edge order of g, so equal graphs produce identical DOT.
func ToDOT(g *modgraph.Graph, opts Options) string {
	flagged := make(map[dependency.Dependency]bool)
	if opts.Report != nil {
		for _, d := range opts.Report.Diagnostics() {
			flagged[d.Dependency] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph modules {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	for _, m := range g.Modules() {
		attrs := []string{fmt.Sprintf("label=%q", m.Identifier()+"\n"+m.Type())}
		if modgraph.IsWebAssembly(m.Type()) {
			attrs = append(attrs, "fillcolor=\"#dbeafe\"")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", m.Identifier(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(g, e.Dep, opts))}
		if flagged[e.Dep] {
			attrs = append(attrs, "color=red", "fontcolor=red", "style=dashed")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeLabel(g *modgraph.Graph, d dependency.Dependency, opts Options) string {
	if !opts.Detailed {
		return d.Type()
	}
	refs := d.ReferencedExports(g, opts.Runtime)
	names := make([]string, len(refs))
	for i, p := range refs {
		names[i] = p.String()
	}
	return d.Type() + "\n" + strings.Join(names, ", ")
}

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces dot in the given format.
func Render(ctx context.Context, dot, format string) ([]byte, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, err
	}
	if format == render.FormatSVG {
		return RenderSVG(ctx, dot)
	}
	return []byte(dot), nil
}
