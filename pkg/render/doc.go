// Package render converts chart output between formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The pipeline uses them for
// the png and pdf output formats.
//
//	doc := svg.New(800, 600)
//	// ... anchor and flush a component tree onto doc ...
//	pdf, err := render.ToPDF(doc.Bytes())
//	png, err := render.ToPNG(doc.Bytes(), 2.0) // 2x scale
//
// # Component Trees
//
// The [nodelink] subpackage draws the component tree itself as a Graphviz
// diagram, one box per component, which helps when a layout comes out
// differently than expected.
//
// [nodelink]: github.com/matzehuels/plotgrid/pkg/render/nodelink
package render
