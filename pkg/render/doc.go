// Package render serializes graph documents and turns them into images.
//
// # Overview
//
// [ToDOT] produces Graphviz DOT text from a [graph.Document]. It is pure and
// deterministic: the same document always yields the same bytes, which is
// what the interactive view displays and what the layout engines consume.
//
// # Layout Engines
//
// A [LayoutEngine] turns a document into SVG:
//
//   - [ExecEngine] runs the external dot program (one process per image)
//   - [BuiltinEngine] uses [github.com/goccy/go-graphviz], a WebAssembly
//     build of Graphviz, so no install is needed
//
// The generated graph is laid out left to right with spline-routed edges and
// overlap removal; group nodes are HTML tables whose rows are ports, so edges
// attach to individual pins.
//
// # Export
//
// [Export] dispatches on the output format:
//
//	data, err := render.Export(ctx, engine, doc, render.FormatSVG)
//
// PDF and PNG are converted from SVG with rsvg-convert (librsvg). DOT output
// is the serialized text. Engine and converter failures carry the
// RENDER_FAILURE error code.
//
// [graph.Document]: github.com/matzehuels/halgraph/pkg/graph.Document
package render
