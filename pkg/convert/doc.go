// Package convert maps plain records onto visual model items and back.
//
// A [Converter] is bound to one [visual.Model]. It turns plain nodes into
// positioned visual nodes (sized to fit their label) and plain edges into
// visual edges between already-created nodes. [ToPlain] goes the other way
// and works on items of any model.
//
// # Identity
//
// Every item has exactly one id, stored under "id" in its tag. The id is the
// caller's own "id" field when it is present and non-empty, and a fresh UUID
// otherwise. Edge endpoints refer to these ids.
//
// # Tags
//
// A node's tag holds all of its plain fields except "x" and "y", which become
// the node's position. An edge's tag holds all of its plain fields except the
// endpoint references ("source", "sourceId", "target", "targetId"); see
// [EdgeTag]. Converting back re-derives the dropped fields from the live
// model, so a node's position and an edge's endpoints always reflect the
// model's current state.
//
// # Example
//
//	m := visual.NewMemory()
//	c := convert.New(m, convert.Options{})
//
//	a, _ := c.CreateNode(plain.Record{"id": "a", "name": "Alpha"})
//	b, _ := c.CreateNode(plain.Record{"id": "b", "x": 100})
//	id, _ := c.CreateEdge(plain.Record{"sourceId": "a", "targetId": "b"}, convert.IndexModel(m))
//
//	p, _ := convert.ToPlain(m.Edges())
package convert
