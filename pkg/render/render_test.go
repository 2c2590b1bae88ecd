package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

func testModel(t *testing.T) *visual.Memory {
	t.Helper()
	m := visual.NewMemory()
	a := m.CreateNodeAt(r2.Vec{X: 0, Y: 0}, plain.Record{"id": "a"})
	b := m.CreateNodeAt(r2.Vec{X: 100, Y: 50}, plain.Record{"id": "b", "attributes": plain.Record{"color": "red"}})
	if _, err := m.AddLabel(a, "Alpha & Co"); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}
	if _, err := m.CreateEdge(a, b, plain.Record{"id": "ab"}); err != nil {
		t.Fatalf("CreateEdge: %v", err)
	}
	return m
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(testModel(t), &buf, Options{Title: "demo"}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`viewBox="-35 -35 170 120"`,
		"<title>demo</title>",
		"Alpha &amp; Co",
		"fill:red",
		`marker-end="url(#arrow)"`,
		"</svg>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	if got := strings.Count(out, "<rect"); got != 2 {
		t.Errorf("SVG rect count = %d, want 2", got)
	}
}

func TestSVG_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(visual.NewMemory(), &buf, Options{}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(buf.String(), `viewBox="-20 -20 40 40"`) {
		t.Errorf("empty SVG viewBox wrong: %s", buf.String())
	}
}

func TestSVG_HostileStyleValues(t *testing.T) {
	m := visual.NewMemory()
	a := m.CreateNodeAt(r2.Vec{}, plain.Record{"id": "a", "attributes": plain.Record{"color": `red" onload="alert(1)`}})
	b := m.CreateNodeAt(r2.Vec{X: 80}, plain.Record{"id": "b"})
	if _, err := m.AddLabel(a, "A"); err != nil {
		t.Fatalf("AddLabel: %v", err)
	}
	if _, err := m.CreateEdge(a, b, plain.Record{"attributes": plain.Record{"color": "blue;x=1"}}); err != nil {
		t.Fatalf("CreateEdge: %v", err)
	}

	var buf bytes.Buffer
	err := SVG(m, &buf, Options{Font: visual.Font{Family: `Go" onclick="x`, Size: 12}})
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "onload") || strings.Contains(out, "onclick") {
		t.Errorf("SVG output carries injected attributes:\n%s", out)
	}
	if !strings.Contains(out, "fill:"+DefaultNodeColor) {
		t.Errorf("invalid node color should fall back to %s", DefaultNodeColor)
	}

	dec := xml.NewDecoder(&buf)
	for {
		if _, err := dec.Token(); err != nil {
			if err != io.EOF {
				t.Fatalf("SVG is not well-formed XML: %v", err)
			}
			break
		}
	}
}

func TestValidColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"red", true},
		{"#fff", true},
		{"#a1b2c3", true},
		{"rgb(10, 20, 30)", true},
		{"hsla(120, 50%, 50%, 0.5)", true},
		{"", false},
		{`red" onload="alert(1)`, false},
		{"blue;stroke:red", false},
		{"url(#x)", false},
	}
	for _, tt := range tests {
		if got := ValidColor(tt.in); got != tt.want {
			t.Errorf("ValidColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	box := r2.Box{Min: r2.Vec{X: -10, Y: -5}, Max: r2.Vec{X: 10, Y: 5}}
	tests := []struct {
		name string
		p    r2.Vec
		want r2.Vec
	}{
		{"right", r2.Vec{X: 100, Y: 0}, r2.Vec{X: 10, Y: 0}},
		{"below", r2.Vec{X: 0, Y: 100}, r2.Vec{X: 0, Y: 5}},
		{"diagonal", r2.Vec{X: 20, Y: 20}, r2.Vec{X: 5, Y: 5}},
		{"inside", r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(box, tt.p); got != tt.want {
				t.Errorf("Clip(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testModel(t), DOTOptions{})

	for _, want := range []string{
		"digraph G",
		`"a" [label="Alpha & Co", pos="0,0!"`,
		`"b" [label="b", pos="100,-50!"`,
		`fillcolor="red"`,
		`"a" -> "b";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	m := visual.NewMemory()
	m.CreateNodeAt(r2.Vec{}, plain.Record{"id": "pkg", "version": "1.0.0"})

	dot := ToDOT(m, DOTOptions{Detailed: true})
	if !strings.Contains(dot, `pkg\nversion: 1.0.0`) {
		t.Errorf("ToDOT() detailed output missing metadata:\n%s", dot)
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	m := visual.NewMemory()
	n := m.CreateNodeAt(r2.Vec{}, plain.Record{"id": "test-node", "extra": 1})

	if got := fmtLabel(n, false); got != "test-node" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "test-node")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 62.00 116.00" width="62" height="116"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}

func TestRenderDOT(t *testing.T) {
	out, err := RenderDOT(context.Background(), ToDOT(testModel(t), DOTOptions{}))
	if err != nil {
		t.Fatalf("RenderDOT: %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Errorf("RenderDOT output is not SVG")
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	var buf bytes.Buffer
	if err := SVG(testModel(t), &buf, Options{}); err != nil {
		t.Fatalf("SVG: %v", err)
	}
	pdf, err := ToPDF(buf.Bytes())
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF output is not a PDF")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"graphviz", FormatGraphviz, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v, want %q (err %v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
	if FormatGraphviz.Ext() != "svg" {
		t.Errorf("graphviz Ext = %q, want svg", FormatGraphviz.Ext())
	}
}

func TestArtifact_JSON(t *testing.T) {
	out, err := Artifact(context.Background(), testModel(t), FormatJSON, ArtifactOptions{GraphID: "demo"})
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	g, err := plain.UnmarshalGraph(out)
	if err != nil {
		t.Fatalf("UnmarshalGraph: %v", err)
	}
	if g.ID != "demo" || g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("exported graph = %+v", g)
	}
}
