package render

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/matzehuels/graphviewer/pkg/convert"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// Format is an output format.
type Format string

const (
	FormatJSON     Format = "json"     // plain graph export
	FormatSVG      Format = "svg"      // direct SVG drawing
	FormatDOT      Format = "dot"      // Graphviz source
	FormatGraphviz Format = "graphviz" // SVG laid out by Graphviz
	FormatPDF      Format = "pdf"
	FormatPNG      Format = "png"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatSVG, FormatDOT, FormatGraphviz, FormatPDF, FormatPNG}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q", s)
	}
	return f, nil
}

// Ext returns the file extension for the format, without a dot.
func (f Format) Ext() string {
	if f == FormatGraphviz {
		return "svg"
	}
	return string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// ArtifactOptions configures [Artifact].
type ArtifactOptions struct {
	SVG Options
	DOT DOTOptions

	// Scale is the PNG scale factor. Defaults to 2.
	Scale float64

	// GraphID is written as the id of a JSON export.
	GraphID string
}

// Artifact renders m in format f.
func Artifact(ctx context.Context, m visual.Model, f Format, opts ArtifactOptions) ([]byte, error) {
	switch f {
	case FormatJSON:
		var buf bytes.Buffer
		if err := plain.WriteGraph(convert.ExportGraph(m, opts.GraphID), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(ToDOT(m, opts.DOT)), nil
	case FormatGraphviz:
		return RenderDOT(ctx, ToDOT(m, opts.DOT))
	}

	var buf bytes.Buffer
	if err := SVG(m, &buf, opts.SVG); err != nil {
		return nil, err
	}
	switch f {
	case FormatSVG:
		return buf.Bytes(), nil
	case FormatPDF:
		return ToPDF(buf.Bytes())
	case FormatPNG:
		scale := opts.Scale
		if scale <= 0 {
			scale = 2
		}
		return ToPNG(buf.Bytes(), scale)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", f)
	}
}
