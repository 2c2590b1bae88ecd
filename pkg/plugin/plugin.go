// Package plugin registers the GraphViewer component with a host and
// exposes the converter functions as one utility surface.
//
//	reg := plugin.NewRegistry()
//	plugin.Install(reg)
//	v, err := reg.New(plugin.ComponentName, viewer.Options{})
package plugin

import (
	"context"
	"sync"

	"github.com/matzehuels/graphviewer/pkg/convert"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/load"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/viewer"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// ComponentName is the name the viewer component is registered under.
const ComponentName = "GraphViewer"

// Factory creates a component instance.
type Factory func(opts viewer.Options) *viewer.Viewer

// Host accepts component registrations.
type Host interface {
	Component(name string, f Factory)
}

// Install registers the GraphViewer component with h.
func Install(h Host) {
	h.Component(ComponentName, viewer.New)
}

// Registry is a Host that keeps registered factories by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Component registers f under name, replacing any previous factory.
func (r *Registry) Component(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names returns the registered component names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	return names
}

// New creates an instance of the named component.
func (r *Registry) New(name string, opts viewer.Options) (*viewer.Viewer, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "component %q is not registered", name)
	}
	return f(opts), nil
}

// =============================================================================
// Utils
// =============================================================================

// Utils bundles the plain/visual conversion functions for hosts that work
// on a model directly instead of through a viewer.
var Utils = utils{}

type utils struct{}

// LoadGraph loads a plain graph into m.
func (utils) LoadGraph(g plain.Graph, m visual.Model) (load.Result, error) {
	return load.New(load.Options{}).Load(context.Background(), g, m)
}

// CreateNode creates a node in m from a plain node.
func (utils) CreateNode(v any, m visual.Model) (visual.Node, error) {
	return convert.New(m, convert.Options{}).CreateNode(v)
}

// FitNodeToLabel resizes n in m to fit text.
func (utils) FitNodeToLabel(n visual.Node, text string, m visual.Model) error {
	return convert.New(m, convert.Options{}).FitNodeToLabel(n, text)
}

// CreateEdge creates an edge in m from a plain edge, resolving endpoints
// against the nodes already in m.
func (utils) CreateEdge(v any, m visual.Model) (string, error) {
	return convert.New(m, convert.Options{}).CreateEdge(v, convert.IndexModel(m))
}

// ToEdgeTag returns the tag an edge created from rec would carry, without
// its id.
func (utils) ToEdgeTag(rec plain.Record) plain.Record { return convert.EdgeTag(rec) }

// ToPlain converts visual items back into plain records.
func (utils) ToPlain(v any) (any, error) { return convert.ToPlain(v) }

// SetRawProperty sets a display property on a raw record.
func (utils) SetRawProperty(r plain.Record, name string, value any) (plain.Record, error) {
	return plain.SetRawProperty(r, name, value)
}
