package convert

import (
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// ToPlain converts visual items back to plain records.
//
// A node or edge yields a plain.Record; a slice of nodes, edges or items
// yields a []plain.Record; a []any is converted element-wise into a []any.
// Order is preserved. Empty values (nil, "", empty records, maps and
// slices) yield nil. Anything else is an INVALID_INPUT error.
func ToPlain(v any) (any, error) {
	switch it := v.(type) {
	case nil:
		return nil, nil
	case string:
		if it == "" {
			return nil, nil
		}
	case plain.Record:
		if len(it) == 0 {
			return nil, nil
		}
	case map[string]any:
		if len(it) == 0 {
			return nil, nil
		}
	case visual.Node:
		return NodeToPlain(it), nil
	case visual.Edge:
		return EdgeToPlain(it), nil
	case []visual.Node:
		return convertAll(it)
	case []visual.Edge:
		return convertAll(it)
	case []visual.Item:
		return convertAll(it)
	case []any:
		if len(it) == 0 {
			return nil, nil
		}
		out := make([]any, len(it))
		for i, e := range it {
			p, err := ToPlain(e)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "expected a visual model item, got %T", v)
}

func convertAll[T visual.Item](items []T) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]plain.Record, len(items))
	for i, it := range items {
		p, err := ToPlain(it)
		if err != nil {
			return nil, err
		}
		out[i], _ = p.(plain.Record)
	}
	return out, nil
}

// NodeToPlain returns a copy of the node's tag with "x" and "y" set to the
// node's current center.
func NodeToPlain(n visual.Node) plain.Record {
	p := n.Tag().Clone()
	if p == nil {
		p = plain.Record{}
	}
	c := visual.Center(n.Layout())
	p[plain.KeyX] = c.X
	p[plain.KeyY] = c.Y
	return p
}

// EdgeToPlain returns a copy of the edge's tag with "sourceId" and
// "targetId" taken from the current endpoints.
func EdgeToPlain(e visual.Edge) plain.Record {
	p := e.Tag().Clone()
	if p == nil {
		p = plain.Record{}
	}
	p[plain.KeySourceID] = refString(e.Source().Tag()[plain.KeyID])
	p[plain.KeyTargetID] = refString(e.Target().Tag()[plain.KeyID])
	return p
}

// ExportGraph converts every item of m into a plain graph with the given id.
func ExportGraph(m visual.Model, id string) plain.Graph {
	nodes := m.Nodes()
	edges := m.Edges()

	g := plain.Graph{ID: id, Nodes: make([]plain.Record, len(nodes))}
	for i, n := range nodes {
		g.Nodes[i] = NodeToPlain(n)
	}
	if len(edges) > 0 {
		g.Edges = make([]plain.Record, len(edges))
		for i, e := range edges {
			g.Edges[i] = EdgeToPlain(e)
		}
	}
	return g
}
