package convert

import (
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// Index maps item ids to visual nodes for edge endpoint resolution.
type Index map[string]visual.Node

// IndexModel indexes all nodes of m by their tag id in one scan.
// Nodes without an id are skipped; on duplicate ids the last node wins.
func IndexModel(m visual.Model) Index {
	nodes := m.Nodes()
	idx := make(Index, len(nodes))
	for _, n := range nodes {
		idx.Add(n)
	}
	return idx
}

// Add records n under its tag id.
func (idx Index) Add(n visual.Node) {
	if id := refString(n.Tag()["id"]); id != "" {
		idx[id] = n
	}
}
