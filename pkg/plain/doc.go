// Package plain defines the framework-agnostic graph format consumed and
// produced by graphviewer.
//
// A plain graph is a JSON document of free-form records:
//
//	{
//	  "id": "g",
//	  "nodes": [{"id": "a", "x": 10, "y": 20, "name": "Alpha"}, {"id": "b"}],
//	  "edges": [{"id": "e1", "sourceId": "a", "targetId": "b", "weight": 2}]
//	}
//
// Only a handful of keys carry meaning for the converter: a node's "id",
// "x", "y", "name" and "labels", and an edge's "id", "sourceId" and
// "targetId". Everything else is opaque metadata that round-trips through the
// visual model unchanged.
//
// # Raw properties
//
// [SetRawProperty] fills in the nested attribute structure understood by
// renderers:
//
//	rec, _ := plain.SetRawProperty(nil, "color", "red")
//	// rec == {"attributes": {"color": "red"}}
//
// # Concurrency
//
// Records are plain maps and are not safe for concurrent writes.
package plain
