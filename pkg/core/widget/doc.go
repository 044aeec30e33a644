// Package widget provides concrete leaves for chart chrome: text labels,
// filled panels and legends.
//
// Widgets paint through [component.Canvas] when the surface supports it and
// are otherwise layout-only.
package widget
