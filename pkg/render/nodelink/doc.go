// Package nodelink renders module graphs as Graphviz node-link diagrams.
//
// Modules become boxes labelled with their ID and type; wasm modules are
// shaded. Every resolved dependency becomes an arrow labelled with its type
// tag and the exports it references. Dependencies that produced a validation
// diagnostic are drawn red and dashed.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Report: report})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binary is needed.
package nodelink
