package visual

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// Font describes the typeface labels are measured and drawn with.
type Font struct {
	Family string  `json:"family" koanf:"family" toml:"family"`
	Size   float64 `json:"size" koanf:"size" toml:"size"`
}

// DefaultFont is the label font used when none is configured.
var DefaultFont = Font{Family: "Go", Size: 12}

// Measurer reports the rendered width and height of text.
type Measurer interface {
	MeasureText(text string, f Font) r2.Vec
}

// FontMeasurer measures text with the Go Regular typeface at 72 DPI.
// Multi-line text is measured line by line: the width is the widest line and
// the height is the line count times the line height.
//
// Faces are cached per size; FontMeasurer is safe for concurrent use.
type FontMeasurer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

var (
	defaultMeasurer     *FontMeasurer
	defaultMeasurerErr  error
	defaultMeasurerOnce sync.Once
)

// NewFontMeasurer returns the shared Go Regular measurer.
func NewFontMeasurer() (*FontMeasurer, error) {
	defaultMeasurerOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			defaultMeasurerErr = err
			return
		}
		defaultMeasurer = &FontMeasurer{font: f, faces: make(map[float64]font.Face)}
	})
	return defaultMeasurer, defaultMeasurerErr
}

// MeasureText implements Measurer. Sizes of zero or less use DefaultFont.Size.
func (m *FontMeasurer) MeasureText(text string, f Font) r2.Vec {
	face := m.face(f.Size)
	if face == nil {
		return EstimateText(text, f)
	}
	metrics := face.Metrics()

	var widest fixed.Int26_6
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		widest = max(widest, font.MeasureString(face, line))
	}
	return r2.Vec{
		X: math.Ceil(fixedToFloat(widest)),
		Y: math.Ceil(fixedToFloat(metrics.Height) * float64(len(lines))),
	}
}

func (m *FontMeasurer) face(size float64) font.Face {
	if size <= 0 {
		size = DefaultFont.Size
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[size]; ok {
		return face
	}
	face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[size] = face
	return face
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// =============================================================================
// Estimation
// =============================================================================

const (
	estCharWidth  = 0.55
	estLineHeight = 1.2
)

// EstimateText approximates the text size from character counts. It backs
// the font measurer when no face is available and is exposed as
// [EstimateMeasurer] for callers that need deterministic output.
func EstimateText(text string, f Font) r2.Vec {
	size := f.Size
	if size <= 0 {
		size = DefaultFont.Size
	}
	lines := strings.Split(text, "\n")
	widest := 0
	for _, line := range lines {
		widest = max(widest, len([]rune(line)))
	}
	return r2.Vec{
		X: math.Round(float64(widest) * size * estCharWidth),
		Y: math.Round(float64(len(lines)) * size * estLineHeight),
	}
}

// EstimateMeasurer is a Measurer backed by [EstimateText].
type EstimateMeasurer struct{}

// MeasureText implements Measurer.
func (EstimateMeasurer) MeasureText(text string, f Font) r2.Vec { return EstimateText(text, f) }

var (
	_ Measurer = (*FontMeasurer)(nil)
	_ Measurer = EstimateMeasurer{}
)
