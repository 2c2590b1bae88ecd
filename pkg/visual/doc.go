// Package visual defines the visual graph model the converter writes into
// and reads back from.
//
// The model is an external collaborator: a rendering engine owns positioned
// nodes, connected edges and their labels, and exposes them through [Model].
// Every item carries a tag, an opaque [plain.Record] that round-trips the
// plain fields of the node or edge it was created from.
//
// [Memory] is an in-memory reference implementation. It keeps topology in a
// gonum directed multigraph so parallel edges between the same endpoints are
// preserved.
//
// # Geometry
//
// Positions and sizes use gonum's [r2.Vec]; node layouts are axis-aligned
// [r2.Box] rectangles. [FromCenter] and [Enlarge] are the two rectangle
// operations label fitting needs.
//
// # Text
//
// [Measurer] reports the rendered size of a label. [NewFontMeasurer]
// measures with the Go Regular typeface from golang.org/x/image.
package visual
