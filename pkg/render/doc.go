// Package render turns module graphs into diagrams.
//
// The node-link renderer lives in [nodelink]. This package holds what the
// renderers share: output formats and their detection from a file name.
//
//	format, err := render.FormatFromPath("graph.svg")
//	dot := nodelink.ToDOT(result.Graph, nodelink.Options{Report: result.Report})
//	out, err := nodelink.Render(ctx, dot, format)
package render
