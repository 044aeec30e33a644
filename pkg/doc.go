// Package pkg provides the core libraries for plotgrid chart layout.
//
// # Overview
//
// plotgrid lays out the parts of a chart (titles, plot areas, legends,
// annotations) on a grid, then paints them onto an output surface. The pkg
// directory is organized into four main areas:
//
//  1. [component], [widget], [text] - The layout core and its widgets
//  2. [surface] backends - SVG documents, terminal cells and a recorder
//  3. [chart], [pipeline], [render] - Chart files and the parse, layout and render stages
//  4. [cache], [snapshot], [observability] - Infrastructure around a run
//
// # Architecture
//
// The typical data flow through plotgrid:
//
//	chart file (TOML)
//	         ↓
//	    [chart] package (parse + build the component tree)
//	         ↓
//	    [component] package (negotiate space, assign rectangles)
//	         ↓
//	    [surface] backends (paint)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Build a tree by hand and render it to SVG:
//
//	env := component.NewEnv(component.WithPolicy(component.Immediate{}))
//	table := component.NewTable()
//	table.Add(widget.NewLabel("Revenue", text.Monospace{}), 0, 0)
//	table.Add(widget.NewPanel("#e8f0fe"), 1, 0)
//
//	doc := svg.New(800, 480)
//	if err := table.RenderTo(env, doc); err != nil {
//	    return err
//	}
//	os.WriteFile("chart.svg", doc.Bytes(), 0o644)
//
// Or run a chart file through the cached pipeline:
//
//	store, _ := cache.Open(ctx, cache.Config{Dir: dir})
//	runner := pipeline.NewRunner(store, nil, logger)
//	result, err := runner.Execute(ctx, source, pipeline.Options{Formats: []string{"svg", "json"}})
//
// # Main Packages
//
// [component] - Component protocol, Group overlays, the Table grid
// allocator and the render Controller with its scheduling policies.
//
// [widget] - Labels, legends and panels built on the protocol.
//
// [text] - Measurement and line wrapping, backed by Go fonts or a
// monospace grid.
//
// [pipeline] - Parse, layout and render stages shared by the CLI and the
// HTTP server, with artifact caching.
//
// [cache] - File, Redis and MongoDB backends keyed by chart hash and options.
//
// [render] - SVG to PNG/PDF conversion and the Graphviz component tree view.
//
// [chart]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/chart
// [component]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/core/component
// [widget]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/core/widget
// [text]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/core/text
// [surface]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/surface
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/cache
// [snapshot]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/snapshot
// [observability]: https://pkg.go.dev/github.com/matzehuels/plotgrid/pkg/observability
package pkg
