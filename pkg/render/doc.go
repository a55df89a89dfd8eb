// Package render composites labels and arrows onto a raster image.
//
// # Overview
//
// Paths are built in device space (pixels, y down) or converted from glyph
// outlines with [FromOutline], then filled or stroked onto a [Canvas]. The
// canvas wraps rasterx: one Filler for non-zero winding fills and one Dasher
// for strokes, both scanning into the same *image.RGBA with source-over
// blending.
//
//	canvas := render.NewCanvas(img)
//	path, ok := render.FromOutline(glyph.Outline)
//	if ok {
//	    m := render.GlyphTransform(nodeX, nodeY, float64(glyph.X), float64(glyph.Y))
//	    canvas.Fill(path, render.FillColor(render.Classify(label)), m)
//	    canvas.Stroke(path, render.LabelOutline, render.LabelStroke(96), m)
//	}
//
// # Arrows
//
// [Arrow] draws an edge as a straight segment plus two wings meeting at the
// segment's midpoint, so the direction reads from the middle of the edge:
//
//	canvas.Stroke(render.Arrow(from, to, render.DefaultWing), render.EdgeColor, render.EdgeStroke, render.Identity)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage exports the same graph as Graphviz DOT with node
// positions pinned to their image coordinates.
//
// [nodelink]: github.com/matzehuels/lobbymap/pkg/render/nodelink
package render
