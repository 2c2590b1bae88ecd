package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// pointsPerInch converts model units to the inches Graphviz sizes nodes in.
const pointsPerInch = 72.0

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed adds the remaining tag fields of each node to its label.
	// When false, only the label text (or the id) is shown.
	Detailed bool
}

// ToDOT converts the model to Graphviz DOT source.
//
// Every node is pinned at its layout center and sized to its layout box, so
// [RenderDOT] reproduces the model's geometry. The y axis is flipped because
// Graphviz grows upwards.
func ToDOT(m visual.Model, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	ids := make(map[visual.Node]string, len(m.Nodes()))
	for i, n := range m.Nodes() {
		id := n.Tag().ID()
		if id == "" {
			id = fmt.Sprintf("n%d", i)
		}
		ids[n] = id
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges() {
		attrs := ""
		if c := itemColor(e, ""); c != "" {
			attrs = fmt.Sprintf(" [color=%q]", c)
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", ids[e.Source()], ids[e.Target()], attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n visual.Node, detailed bool) []string {
	b := n.Layout()
	c := visual.Center(b)
	size := visual.Size(b)

	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%g,%g!\"", c.X, 0-c.Y),
		fmt.Sprintf("width=%g", size.X/pointsPerInch),
		fmt.Sprintf("height=%g", size.Y/pointsPerInch),
	}
	if color := itemColor(n, ""); color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	}
	return attrs
}

func fmtLabel(n visual.Node, detailed bool) string {
	text := n.Tag().ID()
	if labels := n.Labels(); len(labels) > 0 {
		text = labels[0].Text
	}
	if !detailed {
		return text
	}

	tag := n.Tag().Without(plain.KeyID, plain.KeyName, plain.KeyLabels)
	parts := make([]string, 0, len(tag))
	for _, k := range slices.Sorted(maps.Keys(tag)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, tag[k]))
	}
	if len(parts) == 0 {
		return text
	}
	return text + "\n" + strings.Join(parts, "\n")
}

// RenderDOT renders DOT source to SVG using Graphviz's neato engine, which
// honors pinned positions.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// viewBox so the output scales like [SVG].
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
