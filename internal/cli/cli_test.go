package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphviewer/pkg/load"
	"github.com/matzehuels/graphviewer/pkg/pipeline"
	"github.com/matzehuels/graphviewer/pkg/plain"
)

const testGraph = `{
  "id": "g",
  "nodes": [
    {"id": "a", "labels": ["Alpha"]},
    {"id": "b", "labels": ["Beta"], "x": 100, "y": 50}
  ],
  "edges": [
    {"id": "e1", "sourceId": "a", "targetId": "b"},
    {"id": "e2", "sourceId": "a", "targetId": "ghost"}
  ]
}`

// setup isolates the working directory and cache, and writes the test graph.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	path := filepath.Join(dir, "graph.json")
	if err := os.WriteFile(path, []byte(testGraph), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestLoadCommandJSON(t *testing.T) {
	path := setup(t)

	out, err := run(t, "load", path, "--json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	var res load.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Nodes != 2 || res.Edges != 1 {
		t.Errorf("nodes, edges = %d, %d, want 2, 1", res.Nodes, res.Edges)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ID != "e2" {
		t.Errorf("Skipped = %+v, want e2", res.Skipped)
	}
}

func TestLoadCommandReport(t *testing.T) {
	path := setup(t)

	out, err := run(t, "load", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for _, want := range []string{"2 nodes", "1 edges", "1 skipped", "ghost", "render " + path} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadCommandMissingFile(t *testing.T) {
	setup(t)
	if _, err := run(t, "load", "nope.json"); err == nil {
		t.Error("load of a missing file succeeded")
	}
}

func TestExportCommand(t *testing.T) {
	path := setup(t)

	out, err := run(t, "export", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	g, err := plain.UnmarshalGraph([]byte(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Fatalf("nodes, edges = %d, %d, want 2, 1", g.NodeCount(), g.EdgeCount())
	}
	for _, n := range g.Nodes {
		if n.ID() != "b" {
			continue
		}
		if x, _, _ := n.Number(plain.KeyX); x != 100 {
			t.Errorf("b.x = %v, want 100", x)
		}
	}
}

func TestExportCommandToFile(t *testing.T) {
	path := setup(t)
	dst := filepath.Join(filepath.Dir(path), "out.json")

	if _, err := run(t, "export", path, "-o", dst); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := plain.ReadGraphFile(dst); err != nil {
		t.Errorf("ReadGraphFile(%s): %v", dst, err)
	}
}

func TestSetCommand(t *testing.T) {
	path := setup(t)

	out, err := run(t, "set", path, "a", "color", "#ff0000")
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	g, err := plain.UnmarshalGraph([]byte(out))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, n := range g.Nodes {
		if n.ID() != "a" {
			continue
		}
		if v, _ := plain.GetPath(n, plain.PathColor); v != "#ff0000" {
			t.Errorf("a color = %v, want #ff0000", v)
		}
	}
}

func TestSetCommandErrors(t *testing.T) {
	path := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown item", []string{"set", path, "zzz", "color", "red"}},
		{"unknown bare name", []string{"set", path, "a", "size", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("%v succeeded, want error", tt.args)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	path := setup(t)
	base := filepath.Join(filepath.Dir(path), "out", "g")

	if _, err := run(t, "render", path, "-f", "svg,dot", "-o", base, "--cache", "none"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for ext, want := range map[string]string{".svg": "<svg", ".dot": "digraph"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Errorf("read %s: %v", ext, err)
			continue
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("%s output missing %q", ext, want)
		}
	}
}

func TestRenderCommandStdout(t *testing.T) {
	path := setup(t)

	out, err := run(t, "render", path, "-f", "dot", "-o", "-", "--set", "a:color=red")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "digraph") || !strings.Contains(out, "red") {
		t.Errorf("stdout = %q, want a DOT graph colored red", out)
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	path := setup(t)
	if _, err := run(t, "render", path, "-f", "gif"); err == nil {
		t.Error("render -f gif succeeded")
	}
}

func TestConfigCommand(t *testing.T) {
	setup(t)
	t.Setenv("GRAPHVIEWER_SERVER_ADDR", ":9999")

	out, err := run(t, "config", "--font-size", "20")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{`addr = ":9999"`, "size = 20"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	setup(t)
	want := filepath.Join(t.TempDir(), "artifacts")
	t.Setenv("GRAPHVIEWER_CACHE_DIR", want)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	path := setup(t)

	if _, err := run(t, "render", path); err != nil {
		t.Fatalf("render: %v", err)
	}
	dir, _ := cacheDir()
	if n, _ := countFiles(dir); n == 0 {
		t.Fatalf("no cache entries under %s after render", dir)
	}

	out, err := run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared") {
		t.Errorf("output = %q, want Cleared", out)
	}
	if n, _ := countFiles(dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		output  string
		formats []string
		want    map[string]string
		wantErr bool
	}{
		{"next to input", "g.json", "", []string{"svg"}, map[string]string{"svg": "g.svg"}, false},
		{"explicit single", "g.json", "x.out", []string{"png"}, map[string]string{"png": "x.out"}, false},
		{"base path", "g.json", "out/g", []string{"svg", "graphviz"}, map[string]string{"svg": "out/g.svg", "graphviz": "out/g.graphviz.svg"}, false},
		{"json keeps input", "g.json", "", []string{"json"}, map[string]string{"json": "g.export.json"}, false},
		{"stdin input", "-", "", []string{"dot"}, map[string]string{"dot": "graph.dot"}, false},
		{"stdout", "g.json", "-", []string{"dot"}, map[string]string{}, false},
		{"stdout needs one format", "g.json", "-", []string{"dot", "svg"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPaths(tt.input, tt.output, tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputPaths() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseProperty(t *testing.T) {
	tests := []struct {
		in      string
		want    pipeline.Property
		wantErr bool
	}{
		{"a:color=red", pipeline.Property{ID: "a", Name: "color", Value: "red"}, false},
		{"ns:a:attributes.weight=3", pipeline.Property{ID: "ns:a", Name: "attributes.weight", Value: 3.0}, false},
		{"e1:name=\"x=y\"", pipeline.Property{ID: "e1", Name: "name", Value: "x=y"}, false},
		{"a:flag=true", pipeline.Property{ID: "a", Name: "flag", Value: true}, false},
		{"a=red", pipeline.Property{}, true},
		{"a:color", pipeline.Property{}, true},
		{":color=red", pipeline.Property{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseProperty(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseProperty(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseProperty(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, dot,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestItemListModel(t *testing.T) {
	g, err := plain.UnmarshalGraph([]byte(testGraph))
	if err != nil {
		t.Fatal(err)
	}
	m := NewItemListModel("test", g)
	if len(m.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(m.Items))
	}
	if m.Items[0].Kind != kindNode || m.Items[0].Label != "Alpha" {
		t.Errorf("Items[0] = %+v, want node Alpha", m.Items[0])
	}
	if m.Items[2].Kind != kindEdge || m.Items[2].Label != "a → b" {
		t.Errorf("Items[2] = %+v, want edge a → b", m.Items[2])
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(ItemListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor after down = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(ItemListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor after up past top = %d, want 0", m.Cursor)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	m = next.(ItemListModel)
	if m.Cursor != 3 {
		t.Errorf("Cursor after G = %d, want 3", m.Cursor)
	}

	view := m.View()
	for _, want := range []string{"test", "e2", "ghost", "[4/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q did not return a quit command")
	}
}

func TestItemListModelEmpty(t *testing.T) {
	m := NewItemListModel("empty", plain.Graph{})
	if !strings.Contains(m.View(), "empty graph") {
		t.Errorf("View() = %q, want empty notice", m.View())
	}
}
