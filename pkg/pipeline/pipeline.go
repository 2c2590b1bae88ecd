// Package pipeline runs the read → load → render flow shared by the CLI and
// the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: decode a plain graph from a file, a reader or an inline value
//  2. Load: build a visual model through a viewer, applying property patches
//  3. Render: produce one artifact per requested format
//
// Rendered artifacts are cached by the graph's content hash plus the options
// that change the output, so repeated renders of an unchanged file are
// served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "graph.json",
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphviewer/pkg/cache"
	"github.com/matzehuels/graphviewer/pkg/convert"
	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/load"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/render"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = string(render.FormatSVG)

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// =============================================================================
// Options
// =============================================================================

// Property is a raw property patch applied after loading.
type Property struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Options configures a pipeline run.
type Options struct {
	// Input is the path of a plain graph JSON file. Ignored when Graph is set.
	Input string `json:"input,omitempty"`

	// Graph is an inline plain graph.
	Graph *plain.Graph `json:"graph,omitempty"`

	// Formats to render. Defaults to svg.
	Formats []string `json:"formats,omitempty"`

	// Properties are applied in order before rendering.
	Properties []Property `json:"properties,omitempty"`

	// Label sizing
	Font    visual.Font `json:"font,omitempty"`
	MarginX float64     `json:"margin_x,omitempty"`
	MarginY float64     `json:"margin_y,omitempty"`

	// Output
	Padding  float64 `json:"padding,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`

	// Refresh bypasses cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Measurer visual.Measurer `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the graph as read.
	Graph plain.Graph

	// GraphHash is the content hash of Graph.
	GraphHash string

	// Load reports what the load stage created and skipped.
	Load load.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	SkippedEdges int
	ReadTime     time.Duration
	LoadTime     time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if _, err := render.ParseFormat(format); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid format %q (must be one of: json, svg, dot, graphviz, pdf, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options for a full run and fills in
// defaults. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Graph == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input or graph is required")
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForRender checks the render options and fills in defaults.
// The input is not required, so it also serves callers that already hold a
// loaded viewer.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for i, f := range o.Formats {
		p, err := render.ParseFormat(f)
		if err != nil {
			return ValidateFormat(f)
		}
		o.Formats[i] = string(p)
	}
	for _, p := range o.Properties {
		if p.ID == "" || p.Name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "property patch needs an id and a name")
		}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ConvertOptions returns the converter options for a load.
func (o *Options) ConvertOptions() convert.Options {
	return convert.Options{
		Measurer: o.Measurer,
		Font:     o.Font,
		MarginX:  o.MarginX,
		MarginY:  o.MarginY,
	}
}

// RenderOptions returns the renderer options.
func (o *Options) RenderOptions(graphID string) render.ArtifactOptions {
	return render.ArtifactOptions{
		SVG:     render.Options{Padding: o.Padding, Font: o.Font, Title: graphID},
		DOT:     render.DOTOptions{Detailed: o.Detailed},
		Scale:   o.Scale,
		GraphID: graphID,
	}
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		FontSize: o.Font.Size,
		MarginX:  o.MarginX,
		MarginY:  o.MarginY,
		Padding:  o.Padding,
		Scale:    o.Scale,
		Detailed: o.Detailed,
	}
}
