// Package render draws a visual model.
//
// # Overview
//
// Three outputs are supported:
//
//   - [SVG] draws the model as laid out: boxes at their layout rectangles,
//     the first label of each node centered inside, and straight edges
//     between box borders. It uses [github.com/ajstarks/svgo].
//   - [ToDOT] emits Graphviz DOT source with every node pinned at its
//     layout position, and [RenderDOT] renders it in-process with
//     [github.com/goccy/go-graphviz].
//   - [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
//     tool from librsvg.
//
// # Usage
//
//	var buf bytes.Buffer
//	if err := render.SVG(m, &buf, render.Options{}); err != nil {
//	    return err
//	}
//	pdf, err := render.ToPDF(buf.Bytes())
//
// # Styling
//
// A node or edge whose tag carries "attributes.color" is drawn in that
// color. Raw properties set through [plain.SetRawProperty] therefore show up
// in the rendered output.
//
// [plain.SetRawProperty]: github.com/matzehuels/graphviewer/pkg/plain.SetRawProperty
package render
