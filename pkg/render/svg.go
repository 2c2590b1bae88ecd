package render

import (
	"fmt"
	"io"
	"math"
	"regexp"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// ColorPath is the tag path read for an item's color.
const ColorPath = plain.PathColor

// Default drawing parameters.
const (
	DefaultPadding   = 20.0
	DefaultNodeColor = "#ffffff"
	DefaultEdgeColor = "#555555"
	DefaultTextColor = "#222222"
)

// Options configures SVG output. Zero values select the defaults.
type Options struct {
	// Padding is the margin added around the model bounds.
	Padding float64

	// Font is used for label text. Defaults to visual.DefaultFont.
	Font visual.Font

	// Title is written as the document <title> when set.
	Title string
}

func (o *Options) setDefaults() {
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Font.Size <= 0 {
		o.Font.Size = visual.DefaultFont.Size
	}
	if o.Font.Family == "" {
		o.Font.Family = visual.DefaultFont.Family
	}
}

// SVG writes m to w as an SVG document.
//
// The viewBox is the model bounds enlarged by the padding, so the drawing
// uses model coordinates directly. An empty model yields a padding-sized
// empty document.
func SVG(m visual.Model, w io.Writer, opts Options) error {
	opts.setDefaults()

	view := visual.Enlarge(visual.Bounds(m), opts.Padding, opts.Padding)
	size := visual.Size(view)

	canvas := svg.New(w)
	canvas.Startview(
		ceil(size.X), ceil(size.Y),
		floor(view.Min.X), floor(view.Min.Y), ceil(size.X), ceil(size.Y),
	)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	canvas.Def()
	canvas.Marker("arrow", 10, 5, 10, 10, `orient="auto"`, `markerUnits="userSpaceOnUse"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:"+DefaultEdgeColor)
	canvas.MarkerEnd()
	canvas.DefEnd()

	canvas.Gid("edges")
	for _, e := range m.Edges() {
		drawEdge(canvas, e)
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range m.Nodes() {
		drawNode(canvas, n, opts.Font)
	}
	canvas.Gend()

	canvas.End()
	return nil
}

func drawNode(canvas *svg.SVG, n visual.Node, f visual.Font) {
	b := visual.Canon(n.Layout())
	size := visual.Size(b)
	fill := itemColor(n, DefaultNodeColor)

	canvas.Roundrect(
		round(b.Min.X), round(b.Min.Y), round(size.X), round(size.Y), 4, 4,
		fmt.Sprintf("fill:%s;stroke:#333333;stroke-width:1", fill),
	)

	labels := n.Labels()
	if len(labels) == 0 {
		return
	}
	c := visual.Center(b)
	canvas.Text(
		round(c.X), round(c.Y+f.Size/3), labels[0].Text,
		fmt.Sprintf("text-anchor:middle;font-family:%s;font-size:%gpx;fill:%s", fontFamily(f), f.Size, DefaultTextColor),
	)
}

func drawEdge(canvas *svg.SVG, e visual.Edge) {
	src, tgt := e.Source().Layout(), e.Target().Layout()
	from, to := Clip(src, visual.Center(tgt)), Clip(tgt, visual.Center(src))
	canvas.Line(
		round(from.X), round(from.Y), round(to.X), round(to.Y),
		fmt.Sprintf("stroke:%s;stroke-width:1.5", itemColor(e, DefaultEdgeColor)),
		`marker-end="url(#arrow)"`,
	)
}

// Clip returns the point where the segment from the center of b towards p
// leaves b. If p lies inside b, the center is returned.
func Clip(b r2.Box, p r2.Vec) r2.Vec {
	b = visual.Canon(b)
	c := visual.Center(b)
	half := r2.Scale(0.5, visual.Size(b))
	d := r2.Sub(p, c)
	if math.Abs(d.X) <= half.X && math.Abs(d.Y) <= half.Y {
		return c
	}
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, half.X/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, half.Y/math.Abs(d.Y))
	}
	return r2.Add(c, r2.Scale(t, d))
}

// Style values are pasted into svgo style strings, which svgo writes raw
// as attributes once they contain "=". Only plain CSS values get through.
var (
	colorRe  = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]{1,32}|(rgb|rgba|hsl|hsla)\([0-9.%,/ ]{1,64}\))$`)
	familyRe = regexp.MustCompile(`^[\w ,'-]{1,128}$`)
)

// ValidColor reports whether s is a hex, functional or named CSS color.
func ValidColor(s string) bool { return colorRe.MatchString(s) }

// itemColor returns the tag color of it, or fallback when it is unset or
// not a valid color.
func itemColor(it visual.Item, fallback string) string {
	v, ok := plain.GetPath(it.Tag(), ColorPath)
	if !ok {
		return fallback
	}
	if s, ok := v.(string); ok && ValidColor(s) {
		return s
	}
	return fallback
}

func fontFamily(f visual.Font) string {
	if familyRe.MatchString(f.Family) {
		return f.Family
	}
	return visual.DefaultFont.Family
}

func round(f float64) int { return int(math.Round(f)) }
func floor(f float64) int { return int(math.Floor(f)) }
func ceil(f float64) int  { return int(math.Ceil(f)) }
