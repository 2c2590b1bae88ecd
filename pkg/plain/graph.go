package plain

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/graphviewer/pkg/errors"
)

// Graph is the plain graph document.
type Graph struct {
	ID    string   `json:"id,omitempty" bson:"id,omitempty"`
	Nodes []Record `json:"nodes" bson:"nodes"`
	Edges []Record `json:"edges,omitempty" bson:"edges,omitempty"`
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// =============================================================================
// Serialization API
// =============================================================================

// MarshalGraph serializes a graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	return ReadGraph(bytes.NewReader(data))
}

// WriteGraph writes g as indented JSON to w.
// A nil node list is written as an empty array.
func WriteGraph(g Graph, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode graph")
	}
	return nil
}

// ReadGraph decodes a JSON graph from r.
// A document whose nodes are not an array of objects is an INVALID_FORMAT
// error.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return g, nil
}

// WriteGraphFile writes g to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteGraph(g, f)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f)
}
