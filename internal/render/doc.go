// Package render turns an aggregated report into a PNG report card.
//
// [CardValues] computes every placeholder of the card from the report,
// [Render] substitutes them into an SVG template and a [Rasterizer]
// converts the SVG with an external command.
package render
