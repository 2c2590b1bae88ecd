// Package load imports a whole plain graph into a visual model.
//
// Bulk loading is tolerant of dangling references: an edge whose endpoints
// cannot be resolved is skipped instead of failing the load, and reported in
// [Result.Skipped]. Node input is validated up front, so a malformed node or
// a duplicate node id fails the load before anything is added to the model.
//
//	m := visual.NewMemory()
//	res, err := load.Load(g, m)
//	if err != nil {
//	    return err
//	}
//	for _, s := range res.Skipped {
//	    fmt.Printf("edge %d skipped: %s\n", s.Position, s.Reason)
//	}
package load

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphviewer/pkg/convert"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/observability"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// Result describes what a load added to the model.
type Result struct {
	Nodes   int           `json:"nodes"`
	Edges   int           `json:"edges"`
	Skipped []SkippedEdge `json:"skipped,omitempty"`

	// Index maps every loaded node id to its visual node.
	Index convert.Index `json:"-"`
}

// Clean reports whether every edge of the graph was loaded.
func (r Result) Clean() bool { return len(r.Skipped) == 0 }

// SkippedEdge is an edge the loader could not create.
type SkippedEdge struct {
	Position int         `json:"position"` // index into graph.Edges
	ID       string      `json:"id,omitempty"`
	SourceID string      `json:"sourceId,omitempty"`
	TargetID string      `json:"targetId,omitempty"`
	Code     errors.Code `json:"code"`
	Reason   string      `json:"reason"`
}

// Options configures a Loader.
type Options struct {
	// Converter options used for every node and edge.
	Convert convert.Options

	// Logger receives a debug line per skipped edge. Defaults to a discarding
	// logger.
	Logger *log.Logger
}

// Loader loads plain graphs into visual models.
type Loader struct {
	opts   convert.Options
	logger *log.Logger
}

// New returns a Loader.
func New(opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{opts: opts.Convert, logger: logger}
}

// Load imports g into m with default options.
func Load(g plain.Graph, m visual.Model) (Result, error) {
	return New(Options{}).Load(context.Background(), g, m)
}

// Load imports g into m.
//
// Every node is created first; then every edge whose "sourceId" and
// "targetId" resolve to loaded nodes. Edges that do not resolve, or lack an
// endpoint reference, are recorded in Result.Skipped.
func (l *Loader) Load(ctx context.Context, g plain.Graph, m visual.Model) (res Result, err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, g.ID, len(g.Nodes), len(g.Edges))
	defer func() {
		hooks.OnLoadComplete(ctx, g.ID, len(res.Skipped), time.Since(start), err)
	}()

	if err := ValidateNodes(g.Nodes); err != nil {
		return Result{}, err
	}

	c := convert.New(m, l.opts)
	res.Index = make(convert.Index, len(g.Nodes))

	for i, rec := range g.Nodes {
		n, err := c.CreateNode(rec)
		if err != nil {
			return res, errors.Wrap(errors.GetCode(err), err, "node %d", i)
		}
		res.Index.Add(n)
		res.Nodes++
	}

	for i, rec := range g.Edges {
		_, err := c.CreateEdge(rec, res.Index)
		if err == nil {
			res.Edges++
			continue
		}
		code := errors.GetCode(err)
		switch code {
		case errors.ErrCodeInvalidInput, errors.ErrCodeMissingReference, errors.ErrCodeUnresolvedReference:
		default:
			return res, errors.Wrap(errors.ErrCodeInternal, err, "edge %d", i)
		}
		skip := SkippedEdge{
			Position: i,
			ID:       convert.CanonicalID(rec),
			SourceID: convert.Ref(rec, plain.KeySourceID),
			TargetID: convert.Ref(rec, plain.KeyTargetID),
			Code:     code,
			Reason:   errors.UserMessage(err),
		}
		res.Skipped = append(res.Skipped, skip)
		l.logger.Debug("skipped edge", "position", i, "source", skip.SourceID, "target", skip.TargetID, "reason", skip.Reason)
	}

	return res, nil
}

// ValidateNodes checks that every node is a record with numeric or absent
// coordinates and that no two nodes share an id.
func ValidateNodes(nodes []plain.Record) error {
	seen := make(map[string]int, len(nodes))
	for i, rec := range nodes {
		if _, err := plain.ToRecord(rec); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		for _, key := range []string{plain.KeyX, plain.KeyY} {
			if _, _, err := rec.Number(key); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
			}
		}
		id := convert.CanonicalID(rec)
		if id == "" {
			continue
		}
		if prev, dup := seen[id]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q at positions %d and %d", id, prev, i)
		}
		seen[id] = i
	}
	return nil
}
