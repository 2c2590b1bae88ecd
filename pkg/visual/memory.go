package visual

import (
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
)

// DefaultNodeSize is the size of a freshly created node.
var DefaultNodeSize = r2.Vec{X: 30, Y: 30}

// Memory is an in-memory [Model].
//
// Nodes and edges are kept in creation order; topology lives in a gonum
// directed multigraph. Memory is not safe for concurrent use.
type Memory struct {
	g     *multi.DirectedGraph
	nodes []*memNode
	edges []*memEdge

	// NodeSize is the size given to nodes by CreateNodeAt.
	NodeSize r2.Vec
}

// NewMemory returns an empty in-memory model.
func NewMemory() *Memory {
	return &Memory{
		g:        multi.NewDirectedGraph(),
		NodeSize: DefaultNodeSize,
	}
}

// =============================================================================
// Items
// =============================================================================

type memNode struct {
	id     int64
	model  *Memory
	tag    plain.Record
	layout r2.Box
	labels []Label
}

func (n *memNode) ID() int64         { return n.id }
func (n *memNode) Tag() plain.Record { return n.tag }
func (n *memNode) Labels() []Label   { return slices.Clone(n.labels) }
func (n *memNode) Layout() r2.Box    { return n.layout }

type memEdge struct {
	id       int64 // gonum line id, unique per node pair only
	seq      int   // creation index within the model
	model    *Memory
	from, to *memNode
	tag      plain.Record
	labels   []Label
}

func (e *memEdge) Tag() plain.Record { return e.tag }
func (e *memEdge) Labels() []Label   { return slices.Clone(e.labels) }
func (e *memEdge) Source() Node      { return e.from }
func (e *memEdge) Target() Node      { return e.to }

// graph.Line implementation.
func (e *memEdge) ID() int64                { return e.id }
func (e *memEdge) From() graph.Node         { return e.from }
func (e *memEdge) To() graph.Node           { return e.to }
func (e *memEdge) ReversedEdge() graph.Edge { return e.reversed() }
func (e *memEdge) ReversedLine() graph.Line { return e.reversed() }

func (e *memEdge) reversed() *memEdge {
	r := *e
	r.from, r.to = e.to, e.from
	return &r
}

// =============================================================================
// Model
// =============================================================================

// CreateNodeAt creates a node of size NodeSize centered on center.
// A nil tag is replaced by an empty record.
func (m *Memory) CreateNodeAt(center r2.Vec, tag plain.Record) Node {
	if tag == nil {
		tag = plain.Record{}
	}
	n := &memNode{
		id:     m.g.NewNode().ID(),
		model:  m,
		tag:    tag,
		layout: FromCenter(center, m.NodeSize),
	}
	m.g.AddNode(n)
	m.nodes = append(m.nodes, n)
	return n
}

// CreateEdge connects source to target. Both must be nodes of m.
func (m *Memory) CreateEdge(source, target Node, tag plain.Record) (Edge, error) {
	from, err := m.own(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnresolvedReference, err, "edge source")
	}
	to, err := m.own(target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnresolvedReference, err, "edge target")
	}
	if tag == nil {
		tag = plain.Record{}
	}
	e := &memEdge{
		id:    m.g.NewLine(from, to).ID(),
		seq:   len(m.edges),
		model: m,
		from:  from,
		to:    to,
		tag:   tag,
	}
	m.g.SetLine(e)
	m.edges = append(m.edges, e)
	return e, nil
}

// AddLabel appends a label to a node or edge of m.
func (m *Memory) AddLabel(item Item, text string) (Label, error) {
	l := Label{Text: text}
	switch it := item.(type) {
	case *memNode:
		if it.model != m {
			return Label{}, errForeign(item)
		}
		it.labels = append(it.labels, l)
	case *memEdge:
		if it.model != m {
			return Label{}, errForeign(item)
		}
		it.labels = append(it.labels, l)
	default:
		return Label{}, errForeign(item)
	}
	return l, nil
}

// SetNodeLayout replaces the layout of a node of m.
func (m *Memory) SetNodeLayout(n Node, layout r2.Box) error {
	node, err := m.own(n)
	if err != nil {
		return err
	}
	node.layout = Canon(layout)
	return nil
}

// Nodes returns all nodes in creation order.
func (m *Memory) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n
	}
	return out
}

// Edges returns all edges in creation order.
func (m *Memory) Edges() []Edge {
	out := make([]Edge, len(m.edges))
	for i, e := range m.edges {
		out[i] = e
	}
	return out
}

// EdgesAt returns the edges incident to n, outgoing and incoming, ordered by
// creation. A self loop is reported once.
func (m *Memory) EdgesAt(n Node) []Edge {
	node, err := m.own(n)
	if err != nil {
		return nil
	}

	seen := make(map[*memEdge]struct{})
	collect := func(uid, vid int64) {
		lines := m.g.Lines(uid, vid)
		for lines.Next() {
			if e, ok := lines.Line().(*memEdge); ok {
				seen[e] = struct{}{}
			}
		}
	}

	succ := m.g.From(node.id)
	for succ.Next() {
		collect(node.id, succ.Node().ID())
	}
	pred := m.g.To(node.id)
	for pred.Next() {
		collect(pred.Node().ID(), node.id)
	}

	found := make([]*memEdge, 0, len(seen))
	for e := range seen {
		found = append(found, e)
	}
	slices.SortFunc(found, func(a, b *memEdge) int { return a.seq - b.seq })

	out := make([]Edge, len(found))
	for i, e := range found {
		out[i] = e
	}
	return out
}

// Stats summarizes a model's structure.
type Stats struct {
	Nodes      int `json:"nodes"`
	Edges      int `json:"edges"`
	Components int `json:"components"`
	Isolated   int `json:"isolated"`
}

// Stats counts nodes, edges, weakly connected components and isolated
// nodes.
func (m *Memory) Stats() Stats {
	s := Stats{Nodes: len(m.nodes), Edges: len(m.edges)}
	for _, cc := range topo.ConnectedComponents(graph.Undirect{G: m.g}) {
		s.Components++
		if len(cc) == 1 && len(m.EdgesAt(cc[0].(*memNode))) == 0 {
			s.Isolated++
		}
	}
	return s
}

func (m *Memory) own(n Node) (*memNode, error) {
	node, ok := n.(*memNode)
	if !ok || node == nil || node.model != m {
		return nil, errForeign(n)
	}
	return node, nil
}

func errForeign(item Item) error {
	return errors.New(errors.ErrCodeInvalidInput, "item %T does not belong to this model", item)
}

// Ensure Memory implements Model.
var _ Model = (*Memory)(nil)

var (
	_ graph.Line = (*memEdge)(nil)
	_ graph.Edge = (*memEdge)(nil)
)
