// Package pipeline runs the parse → layout → render pipeline for charts.
//
// The CLI and the render service share this package so that both apply
// the same defaults, cache keys and output formats.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode and validate a TOML chart file ([chart.Parse])
//  2. Layout: build the component tree, anchor it onto an SVG document and
//     flush it once with the Immediate policy
//  3. Render: serialize the document (svg), the layout snapshot (json), and
//     convert the SVG to png and pdf
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, source, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	spec, err := pipeline.ParseChart(ctx, source, opts)
//	scene, err := pipeline.Layout(ctx, spec, opts)
//	artifacts, err := pipeline.Render(ctx, scene, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotgrid/pkg/cache"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/fonts"
	"github.com/matzehuels/plotgrid/pkg/observability"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds PNG output size.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for service requests.
type Options struct {
	// Source names the chart in logs and hooks, e.g. a file path.
	Source string `json:"source,omitempty"`

	// Layout options. Zero values keep the chart file's settings.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Font   string  `json:"font,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`

	// Refresh skips cache reads but still writes results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger               `json:"-"`
	Hooks  observability.LayoutHooks `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and service responses.
	RunID string

	// ChartHash is the content hash of the chart source.
	ChartHash string

	// Title is the chart's title.
	Title string

	// Snapshot is the computed layout. It is empty when every artifact
	// came from the cache.
	Snapshot snapshot.Snapshot

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ComponentCount int
	Width          float64
	Height         float64
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.NoopLayoutHooks{}
	}
}

// ValidateForLayout validates the frame and font overrides.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", o.Width}, {"height", o.Height}} {
		if err := errors.ValidateNonNegative(d.name, d.v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSize, err, "invalid %s", d.name)
		}
	}
	if o.Font != "" {
		if _, ok := fonts.Lookup(o.Font); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown font %q (available: %s)", o.Font, strings.Join(fonts.Names(), ", "))
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string, width, height float64) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Width: width, Height: height}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// LayoutKeyOpts returns cache key options for the layout snapshot.
func (o *Options) LayoutKeyOpts(width, height float64) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: width, Height: height, Font: o.Font}
}
