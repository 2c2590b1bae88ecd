// Package viewer implements the GraphViewer component: one visual model plus
// the operations a host needs on it.
//
// A Viewer is safe for concurrent use. Every operation takes the viewer's
// lock, so model access is serialized.
package viewer

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphviewer/pkg/convert"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/load"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/render"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// Options configures a Viewer.
type Options struct {
	// ID names the viewer. Defaults to a random UUID.
	ID string

	// Convert configures node and edge creation.
	Convert convert.Options

	// Render configures Render output.
	Render render.ArtifactOptions

	// Logger is passed to the loader. Defaults to a discarding logger.
	Logger *log.Logger
}

// Viewer owns one visual model.
type Viewer struct {
	mu     sync.Mutex
	id     string
	model  *visual.Memory
	index  convert.Index
	result load.Result
	opts   Options
	loader *load.Loader
}

// New returns an empty viewer.
func New(opts Options) *Viewer {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Viewer{
		id:     opts.ID,
		model:  visual.NewMemory(),
		index:  convert.Index{},
		opts:   opts,
		loader: load.New(load.Options{Convert: opts.Convert, Logger: opts.Logger}),
	}
}

// ID returns the viewer id.
func (v *Viewer) ID() string { return v.id }

// Load replaces the viewer's content with g.
// On error the previous content is kept.
func (v *Viewer) Load(ctx context.Context, g plain.Graph) (load.Result, error) {
	m := visual.NewMemory()
	res, err := v.loader.Load(ctx, g, m)
	if err != nil {
		return res, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.model = m
	v.index = res.Index
	v.result = res
	return res, nil
}

// Result returns the result of the last successful load.
func (v *Viewer) Result() load.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result
}

// Export returns the current content as a plain graph with the viewer id.
func (v *Viewer) Export() plain.Graph {
	v.mu.Lock()
	defer v.mu.Unlock()
	return convert.ExportGraph(v.model, v.id)
}

// Stats summarizes the current model.
func (v *Viewer) Stats() visual.Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.model.Stats()
}

// Render writes the current content in format f.
func (v *Viewer) Render(ctx context.Context, f render.Format) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	opts := v.opts.Render
	if opts.GraphID == "" {
		opts.GraphID = v.id
	}
	return render.Artifact(ctx, v.model, f, opts)
}

// SetProperty sets a raw property on the tag of the node or edge with the
// given id. See [plain.SetRawProperty] for name resolution.
func (v *Viewer) SetProperty(id, name string, value any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, ok := v.lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "no item with id %q", id)
	}
	_, err := plain.SetRawProperty(item.Tag(), name, value)
	return err
}

// Item returns a plain snapshot of the node or edge with the given id.
func (v *Viewer) Item(id string) (plain.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	item, ok := v.lookup(id)
	if !ok {
		return nil, false
	}
	switch it := item.(type) {
	case visual.Node:
		return convert.NodeToPlain(it), true
	case visual.Edge:
		return convert.EdgeToPlain(it), true
	}
	return nil, false
}

// Clear empties the viewer.
func (v *Viewer) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.model = visual.NewMemory()
	v.index = convert.Index{}
	v.result = load.Result{}
}

// lookup finds an item by tag id. Nodes win over edges with the same id.
func (v *Viewer) lookup(id string) (visual.Item, bool) {
	if n, ok := v.index[id]; ok {
		return n, true
	}
	for _, e := range v.model.Edges() {
		if e.Tag().ID() == id {
			return e, true
		}
	}
	return nil, false
}
