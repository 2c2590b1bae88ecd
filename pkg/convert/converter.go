package convert

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/graphviewer/pkg/errors"
	"github.com/matzehuels/graphviewer/pkg/plain"
	"github.com/matzehuels/graphviewer/pkg/visual"
)

// Default label margins added around the measured text on each side.
const (
	DefaultMarginX = 5.0
	DefaultMarginY = 10.0
)

// Options configures a Converter. Zero values select the defaults.
type Options struct {
	// Measurer sizes label text. Defaults to the Go Regular font measurer,
	// or character-count estimation if the font cannot be loaded.
	Measurer visual.Measurer

	// Font is the label font. Defaults to visual.DefaultFont.
	Font visual.Font

	// MarginX and MarginY enlarge a fitted node beyond its label.
	// Defaults to DefaultMarginX and DefaultMarginY.
	MarginX, MarginY float64

	// NewID generates ids for items without one. Defaults to uuid.NewString.
	NewID func() string
}

func (o *Options) setDefaults() {
	if o.Measurer == nil {
		if m, err := visual.NewFontMeasurer(); err == nil {
			o.Measurer = m
		} else {
			o.Measurer = visual.EstimateMeasurer{}
		}
	}
	if o.Font.Size <= 0 {
		o.Font.Size = visual.DefaultFont.Size
	}
	if o.Font.Family == "" {
		o.Font.Family = visual.DefaultFont.Family
	}
	if o.MarginX == 0 {
		o.MarginX = DefaultMarginX
	}
	if o.MarginY == 0 {
		o.MarginY = DefaultMarginY
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

// Converter creates visual items in one model from plain records.
// It holds no state besides the model and its options.
type Converter struct {
	model visual.Model
	opts  Options
}

// New returns a converter writing into model.
func New(model visual.Model, opts Options) *Converter {
	opts.setDefaults()
	return &Converter{model: model, opts: opts}
}

// Model returns the model the converter writes into.
func (c *Converter) Model() visual.Model { return c.model }

// =============================================================================
// Nodes
// =============================================================================

// CreateNode creates a visual node from a plain node record.
//
// The node is centered on (x, y); a missing coordinate is 0 but an explicit 0
// is kept as given. If the record has a display text (see [DisplayText]) the
// node gets a label and is resized to fit it.
func (c *Converter) CreateNode(v any) (visual.Node, error) {
	rec, err := plain.ToRecord(v)
	if err != nil {
		return nil, err
	}

	x, _, err := rec.Number(plain.KeyX)
	if err != nil {
		return nil, err
	}
	y, _, err := rec.Number(plain.KeyY)
	if err != nil {
		return nil, err
	}

	tag := rec.Without(plain.KeyX, plain.KeyY)
	tag[plain.KeyID] = c.canonicalID(rec)

	node := c.model.CreateNodeAt(r2.Vec{X: x, Y: y}, tag)

	if text := DisplayText(rec); text != "" {
		if _, err := c.model.AddLabel(node, text); err != nil {
			return node, errors.Wrap(errors.ErrCodeInternal, err, "label node %s", tag.ID())
		}
		if err := c.FitNodeToLabel(node, text); err != nil {
			return node, err
		}
	}
	return node, nil
}

// FitNodeToLabel resizes n to the measured size of text plus the configured
// margins, keeping its center.
func (c *Converter) FitNodeToLabel(n visual.Node, text string) error {
	size := c.opts.Measurer.MeasureText(text, c.opts.Font)
	layout := visual.FromCenter(visual.Center(n.Layout()), size)
	layout = visual.Enlarge(layout, c.opts.MarginX, c.opts.MarginY)
	if err := c.model.SetNodeLayout(n, layout); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "resize node %s", n.Tag().ID())
	}
	return nil
}

// DisplayText returns the text a node is labeled with: its non-empty "name",
// else its first "labels" entry, else "". Further labels are not shown.
func DisplayText(rec plain.Record) string {
	if v, ok := rec[plain.KeyName]; ok && v != nil {
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	if labels := rec.Strings(plain.KeyLabels); len(labels) > 0 {
		return labels[0]
	}
	return ""
}

// =============================================================================
// Edges
// =============================================================================

// CreateEdge creates a visual edge from a plain edge record and returns its
// id.
//
// The record must name both endpoints through "sourceId" and "targetId",
// and both ids must resolve through idx. Unlike bulk loading, an unresolved
// endpoint is an error here.
func (c *Converter) CreateEdge(v any, idx Index) (string, error) {
	rec, err := plain.ToRecord(v)
	if err != nil {
		return "", err
	}

	sourceID, targetID, err := EdgeEndpoints(rec)
	if err != nil {
		return "", err
	}

	source, ok := idx[sourceID]
	if !ok {
		return "", errors.New(errors.ErrCodeUnresolvedReference, "cannot find the source node with id %q", sourceID)
	}
	target, ok := idx[targetID]
	if !ok {
		return "", errors.New(errors.ErrCodeUnresolvedReference, "cannot find the target node with id %q", targetID)
	}

	return c.connect(rec, source, target)
}

// connect creates the edge between resolved endpoints.
func (c *Converter) connect(rec plain.Record, source, target visual.Node) (string, error) {
	tag := EdgeTag(rec)
	id := c.canonicalID(rec)
	tag[plain.KeyID] = id

	if _, err := c.model.CreateEdge(source, target, tag); err != nil {
		return "", err
	}
	return id, nil
}

// EdgeEndpoints returns the "sourceId" and "targetId" of an edge record,
// or a MISSING_REFERENCE error if either is absent or empty.
func EdgeEndpoints(rec plain.Record) (sourceID, targetID string, err error) {
	sourceID = refString(rec[plain.KeySourceID])
	if sourceID == "" {
		return "", "", errors.New(errors.ErrCodeMissingReference, "the sourceId is missing")
	}
	targetID = refString(rec[plain.KeyTargetID])
	if targetID == "" {
		return "", "", errors.New(errors.ErrCodeMissingReference, "the targetId is missing")
	}
	return sourceID, targetID, nil
}

// EdgeTag returns a shallow copy of a plain edge without its endpoint
// references. Caller metadata and any "id" are kept.
func EdgeTag(rec plain.Record) plain.Record {
	return rec.Without(plain.KeySource, plain.KeySourceID, plain.KeyTarget, plain.KeyTargetID)
}

// =============================================================================
// Identity
// =============================================================================

// canonicalID returns the caller's id, or a fresh one when it is absent.
func (c *Converter) canonicalID(rec plain.Record) string {
	if id := refString(rec[plain.KeyID]); id != "" {
		return id
	}
	return c.opts.NewID()
}

// CanonicalID returns the id an item created from rec is stored under, or ""
// when one would be generated.
func CanonicalID(rec plain.Record) string {
	return refString(rec[plain.KeyID])
}

// Ref returns the id-like value under key as a string, or "" when absent.
func Ref(rec plain.Record, key string) string {
	return refString(rec[key])
}

// refString renders an id-like value as a string. Non-string scalars such as
// JSON numbers are formatted; nil is "".
func refString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
