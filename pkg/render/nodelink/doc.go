// Package nodelink renders component trees as node-link diagrams.
//
// # Overview
//
// Each component becomes a box labelled with its type and name, connected
// to its container by an arrow. Containers are drawn filled so the tree's
// structure stands out from its leaves.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: When true, labels include the computed rectangle, classes
//     and clip id of each component.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
