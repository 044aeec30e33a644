package pipeline

import (
	"bytes"
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/plotgrid/pkg/errors"
	"github.com/matzehuels/plotgrid/pkg/observability"
	"github.com/matzehuels/plotgrid/pkg/render"
	"github.com/matzehuels/plotgrid/pkg/snapshot"
)

// Render generates output artifacts in the requested formats. Conversions
// to png and pdf run concurrently.
func Render(ctx context.Context, scene *Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderFormats(ctx, scene, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormats(ctx context.Context, scene *Scene, opts Options) (map[string][]byte, error) {
	svgData := scene.Document.Bytes()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var mu sync.Mutex
	set := func(format string, data []byte) {
		mu.Lock()
		artifacts[format] = data
		mu.Unlock()
	}

	g, _ := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			set(format, svgData)
		case FormatJSON:
			data, err := MarshalSnapshot(scene.Snapshot())
			if err != nil {
				_ = g.Wait()
				return nil, err
			}
			set(format, data)
		case FormatPNG, FormatPDF:
			g.Go(func() error {
				var data []byte
				var err error
				if format == FormatPNG {
					data, err = render.ToPNG(svgData, opts.Scale)
				} else {
					data, err = render.ToPDF(svgData)
				}
				if err != nil {
					code := errors.GetCode(err)
					if code == "" {
						code = errors.ErrCodeInternal
					}
					return errors.Wrap(code, err, "render %s", format)
				}
				set(format, data)
				return nil
			})
		default:
			_ = g.Wait()
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// MarshalSnapshot encodes a snapshot as the json artifact.
func MarshalSnapshot(s snapshot.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := snapshot.WriteJSON(s, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize snapshot")
	}
	return buf.Bytes(), nil
}
