package visual

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/plain"
)

// Item is a node or edge owned by a [Model].
type Item interface {
	// Tag returns the item's metadata record. The record is owned by the
	// model; callers that want to keep it must copy it.
	Tag() plain.Record
	// Labels returns the labels attached to the item in insertion order.
	Labels() []Label
}

// Node is a positioned visual node.
type Node interface {
	Item
	// Layout returns the node's bounding rectangle.
	Layout() r2.Box
}

// Edge is a visual edge between two nodes of the same model.
type Edge interface {
	Item
	Source() Node
	Target() Node
}

// Label is display text attached to an item.
type Label struct {
	Text string
}

// Model is the live visual model.
//
// Implementations are not required to be safe for concurrent use.
type Model interface {
	// CreateNodeAt creates a node of default size centered on center.
	CreateNodeAt(center r2.Vec, tag plain.Record) Node
	// CreateEdge connects two nodes of this model.
	CreateEdge(source, target Node, tag plain.Record) (Edge, error)
	// AddLabel attaches a label to a node or edge of this model.
	AddLabel(item Item, text string) (Label, error)
	// SetNodeLayout replaces the bounding rectangle of a node.
	SetNodeLayout(n Node, layout r2.Box) error
	// Nodes returns all nodes in creation order.
	Nodes() []Node
	// Edges returns all edges in creation order.
	Edges() []Edge
}

// Bounds returns the union of all node layouts, or the zero box for an
// empty model.
func Bounds(m Model) r2.Box {
	var (
		out   r2.Box
		first = true
	)
	for _, n := range m.Nodes() {
		if first {
			out = Canon(n.Layout())
			first = false
			continue
		}
		out = Union(out, n.Layout())
	}
	return out
}
