package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphviewer/pkg/cache"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/load"
	"github.com/matzehuels/graphviewer/pkg/observability"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/render"
	"github.com/matzehuels/graphviewer/pkg/viewer"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete read → load → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Read
	readStart := time.Now()
	g, err := Read(opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.GraphHash = r.hash(g, opts.Properties)
	result.Stats.ReadTime = time.Since(readStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// A full hit skips loading.
	if !opts.Refresh {
		if artifacts, res, ok := r.cachedRun(ctx, result.GraphHash, opts); ok {
			result.Load = res
			result.Artifacts = artifacts
			result.Stats.SkippedEdges = len(res.Skipped)
			result.CacheInfo.RenderHit = true
			r.Logger.Info("served from cache", "formats", opts.Formats, "graph", result.GraphHash[:12])
			return result, nil
		}
	}

	// Stage 2: Load
	loadStart := time.Now()
	v, err := r.Load(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Load = v.Result()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.SkippedEdges = len(result.Load.Skipped)
	r.storeLoad(ctx, result.GraphHash, result.Load)

	r.Logger.Info("loaded graph",
		"nodes", result.Load.Nodes,
		"edges", result.Load.Edges,
		"skipped", result.Stats.SkippedEdges,
		"duration", result.Stats.LoadTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, v, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Read returns the inline graph or decodes opts.Input.
func Read(opts Options) (plain.Graph, error) {
	if opts.Graph != nil {
		return *opts.Graph, nil
	}
	return plain.ReadGraphFile(opts.Input)
}

// Load creates a viewer for g and applies the property patches.
func (r *Runner) Load(ctx context.Context, g plain.Graph, opts Options) (*viewer.Viewer, error) {
	v := viewer.New(viewer.Options{
		ID:      g.ID,
		Convert: opts.ConvertOptions(),
		Render:  opts.RenderOptions(g.ID),
		Logger:  opts.Logger,
	})
	if _, err := v.Load(ctx, g); err != nil {
		return nil, err
	}
	for _, p := range opts.Properties {
		if err := v.SetProperty(p.ID, p.Name, p.Value); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "set %s on %s", p.Name, p.ID)
		}
	}
	return v, nil
}

// RenderWithCacheInfo renders every requested format of v, serving cached
// artifacts when all of them are present. The boolean reports a full hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, v *viewer.Viewer, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, "artifact")
				break
			}
			hooks.OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := r.Render(ctx, v, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render renders every requested format of v without caching.
func (r *Runner) Render(ctx context.Context, v *viewer.Viewer, opts Options) (out map[string][]byte, err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	out = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		f, err := render.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		data, err := v.Render(ctx, f)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "render %s", f)
		}
		out[format] = data
	}
	return out, nil
}

// cachedRun returns the load result and every requested artifact of an
// earlier run, or false unless all of them are cached.
func (r *Runner) cachedRun(ctx context.Context, graphHash string, opts Options) (map[string][]byte, load.Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, r.Keyer.GraphKey(graphHash))
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "graph")
		return nil, load.Result{}, false
	}
	var res load.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Debug("discarding cached load result", "error", err)
		return nil, load.Result{}, false
	}
	hooks.OnCacheHit(ctx, "graph")

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, load.Result{}, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, res, true
}

// storeLoad caches a load result under the graph key.
func (r *Runner) storeLoad(ctx context.Context, graphHash string, res load.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.GraphKey(graphHash), data, cache.TTLGraph); err != nil {
		r.Logger.Warn("cache write failed", "key", "graph", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// hash identifies the graph content together with the property patches.
func (r *Runner) hash(g plain.Graph, props []Property) string {
	var buf bytes.Buffer
	if data, err := plain.MarshalGraph(g); err == nil {
		buf.Write(data)
	}
	if len(props) > 0 {
		data, _ := json.Marshal(props)
		buf.Write(data)
	}
	return cache.Hash(buf.Bytes())
}
