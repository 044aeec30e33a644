package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/plotgrid/pkg/chart"
	"github.com/matzehuels/plotgrid/pkg/observability"
)

// ParseChart decodes and validates a chart file.
func ParseChart(ctx context.Context, source []byte, opts Options) (*chart.Spec, error) {
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	spec, err := chart.Parse(source)

	count := 0
	if spec != nil {
		count = spec.Count()
	}
	hooks.OnParseComplete(ctx, opts.Source, count, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

// frame returns the layout size: the options' overrides, else the chart's.
func frame(spec *chart.Spec, opts Options) (width, height float64) {
	width, height = spec.Width, spec.Height
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	return width, height
}

// fontName returns the font override, else the chart's font.
func fontName(spec *chart.Spec, opts Options) string {
	if opts.Font != "" {
		return opts.Font
	}
	return spec.Font
}
