// Package text measures and wraps strings for components whose size
// depends on their content.
package text

import (
	"fmt"
	"math"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/plotgrid/pkg/fonts"
)

// Measurer reports the extent of text at a font size.
type Measurer interface {
	// Width returns the advance width of s.
	Width(s string, size float64) float64
	// LineHeight returns the distance between baselines.
	LineHeight(size float64) float64
	// Ascent returns the distance from the top of a line to its baseline.
	Ascent(size float64) float64
}

// FontMeasurer measures with a parsed OpenType font. Faces are created per
// size on first use. It is safe for concurrent use.
type FontMeasurer struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewFontMeasurer parses TTF or OTF data.
func NewFontMeasurer(data []byte) (*FontMeasurer, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &FontMeasurer{font: f, faces: make(map[float64]font.Face)}, nil
}

// ForFamily returns a measurer for a registered font family.
func ForFamily(name string) (*FontMeasurer, error) {
	fam, ok := fonts.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("text: unknown font family %q (available: %v)", name, fonts.Names())
	}
	return NewFontMeasurer(fam.TTF)
}

var (
	defaultMeasurer     Measurer
	defaultMeasurerOnce sync.Once
)

// Default returns a measurer for the default family, falling back to
// Monospace if the font cannot be loaded.
func Default() Measurer {
	defaultMeasurerOnce.Do(func() {
		m, err := ForFamily(fonts.DefaultFamily)
		if err != nil {
			defaultMeasurer = Monospace{}
			return
		}
		defaultMeasurer = m
	})
	return defaultMeasurer
}

func (m *FontMeasurer) face(size float64) font.Face {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[size]; ok {
		return f
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[size] = f
	return f
}

// Width implements Measurer.
func (m *FontMeasurer) Width(s string, size float64) float64 {
	f := m.face(size)
	if f == nil {
		return Monospace{}.Width(s, size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(font.MeasureString(f, s))
}

// LineHeight implements Measurer.
func (m *FontMeasurer) LineHeight(size float64) float64 {
	f := m.face(size)
	if f == nil {
		return Monospace{}.LineHeight(size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(f.Metrics().Height)
}

// Ascent implements Measurer.
func (m *FontMeasurer) Ascent(size float64) float64 {
	f := m.face(size)
	if f == nil {
		return Monospace{}.Ascent(size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(f.Metrics().Ascent)
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}

// Monospace measures every rune as Advance units wide and lines as Line
// units tall, both scaled by size. The zero value treats one unit as one
// terminal cell for any size.
type Monospace struct {
	Advance float64
	Line    float64
}

// Width implements Measurer.
func (m Monospace) Width(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * m.scale(m.Advance, size)
}

// LineHeight implements Measurer.
func (m Monospace) LineHeight(size float64) float64 {
	return m.scale(m.Line, size)
}

// Ascent implements Measurer.
func (m Monospace) Ascent(size float64) float64 {
	return math.Ceil(m.LineHeight(size) * 0.8)
}

func (m Monospace) scale(v, size float64) float64 {
	if v == 0 {
		return 1
	}
	return v * size
}
