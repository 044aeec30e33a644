package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/plotgrid/pkg/chart"
	"github.com/matzehuels/plotgrid/pkg/core/component"
	"github.com/matzehuels/plotgrid/pkg/core/text"
	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/fonts"
	"github.com/matzehuels/plotgrid/pkg/observability"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
	"github.com/matzehuels/plotgrid/pkg/surface/svg"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Scene is a laid-out and painted chart.
type Scene struct {
	Spec     *chart.Spec
	Root     component.Component
	Document *svg.Document
	Env      *component.Env
	Width    float64
	Height   float64
}

// Snapshot captures the scene's component tree.
func (s *Scene) Snapshot() snapshot.Snapshot {
	return snapshot.Capture(s.Root)
}

// Close destroys the component tree.
func (s *Scene) Close() {
	s.Root.Destroy()
}

// renderer is implemented by every component embedding component.Base.
type renderer interface {
	RenderTo(env *component.Env, surface component.RootSurface) error
}

// Layout builds the chart's component tree and renders it synchronously
// onto an SVG document.
func Layout(ctx context.Context, spec *chart.Spec, opts Options) (*Scene, error) {
	opts.SetLayoutDefaults()
	width, height := frame(spec, opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, width, height)
	start := time.Now()

	scene, err := layout(spec, opts, width, height)
	hooks.OnLayoutComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return scene, nil
}

func layout(spec *chart.Spec, opts Options, width, height float64) (*Scene, error) {
	if err := errors.ValidateSize(width, height); err != nil {
		return nil, err
	}
	family, ok := fonts.Lookup(fontName(spec, opts))
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown font %q", fontName(spec, opts))
	}
	m, err := text.NewFontMeasurer(family.TTF)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font %s", family.Name)
	}

	root, err := chart.Build(spec, m)
	if err != nil {
		return nil, err
	}
	r, ok := root.(renderer)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "%T cannot be rendered", root)
	}

	doc := svg.New(width, height,
		svg.WithFont(family),
		svg.WithTitle(spec.Title),
		svg.WithBackground(spec.Background))
	env := component.NewEnv(
		component.WithPolicy(component.Immediate{}),
		component.WithLogger(opts.Logger),
		component.WithHooks(opts.Hooks))

	if err := r.RenderTo(env, doc); err != nil {
		root.Destroy()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "layout chart")
	}
	return &Scene{Spec: spec, Root: root, Document: doc, Env: env, Width: width, Height: height}, nil
}
