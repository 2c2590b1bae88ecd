package plugin

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/viewer"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

func TestInstall(t *testing.T) {
	reg := NewRegistry()
	Install(reg)

	if names := reg.Names(); len(names) != 1 || names[0] != ComponentName {
		t.Fatalf("Names = %v, want [%s]", names, ComponentName)
	}
	v, err := reg.New(ComponentName, viewer.Options{ID: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v.ID() != "x" {
		t.Errorf("viewer ID = %q, want x", v.ID())
	}
	g := plain.Graph{Nodes: []plain.Record{{"id": "a"}}}
	if _, err := v.Load(context.Background(), g); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestRegistryUnknown(t *testing.T) {
	_, err := NewRegistry().New("Other", viewer.Options{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("New(unknown) = %v, want NOT_FOUND", err)
	}
}

func TestUtils(t *testing.T) {
	m := visual.NewMemory()
	m.NodeSize = r2.Vec{X: 10, Y: 10}

	a, err := Utils.CreateNode(map[string]any{"id": "a"}, m)
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if _, err := Utils.CreateNode(plain.Record{"id": "b", "x": 50.0}, m); err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	id, err := Utils.CreateEdge(plain.Record{"id": "ab", "sourceId": "a", "targetId": "b"}, m)
	if err != nil || id != "ab" {
		t.Fatalf("CreateEdge = %q, %v", id, err)
	}
	if _, err := Utils.CreateEdge(plain.Record{"sourceId": "a", "targetId": "zz"}, m); !errors.Is(err, errors.ErrCodeUnresolvedReference) {
		t.Errorf("CreateEdge(dangling) = %v, want UNRESOLVED_REFERENCE", err)
	}

	if err := Utils.FitNodeToLabel(a, "label", m); err != nil {
		t.Fatalf("FitNodeToLabel: %v", err)
	}
	if w := visual.Size(a.Layout()).X; w <= 10 {
		t.Errorf("fitted width = %v, want > 10", w)
	}

	out, err := Utils.ToPlain(m.Edges())
	if err != nil {
		t.Fatalf("ToPlain: %v", err)
	}
	recs := out.([]plain.Record)
	if recs[0]["sourceId"] != "a" || recs[0]["targetId"] != "b" {
		t.Errorf("ToPlain edge = %v", recs[0])
	}

	tag := Utils.ToEdgeTag(plain.Record{"sourceId": "a", "targetId": "b", "w": 1})
	if len(tag) != 1 || tag["w"] != 1 {
		t.Errorf("ToEdgeTag = %v", tag)
	}

	r, err := Utils.SetRawProperty(nil, "color", "red")
	if err != nil || r["attributes"].(plain.Record)["color"] != "red" {
		t.Errorf("SetRawProperty = %v, %v", r, err)
	}

	m2 := visual.NewMemory()
	res, err := Utils.LoadGraph(plain.Graph{Nodes: []plain.Record{{"id": "n"}}}, m2)
	if err != nil || res.Nodes != 1 {
		t.Errorf("LoadGraph = %+v, %v", res, err)
	}
}
