package render

import "github.com/srwiley/rasterx"

// Identity leaves points unchanged.
var Identity = rasterx.Identity

// GlyphTransform maps a y-up glyph outline into device space: flip the y
// axis, move to the label's node position, then to the glyph's pen position
// within the label layout.
func GlyphTransform(nodeX, nodeY, glyphX, glyphY float64) rasterx.Matrix2D {
	return rasterx.Matrix2D{
		A: 1, B: 0,
		C: 0, D: -1,
		E: nodeX + glyphX,
		F: nodeY + glyphY,
	}
}

// Translate returns a pure translation.
func Translate(dx, dy float64) rasterx.Matrix2D {
	return rasterx.Matrix2D{A: 1, D: 1, E: dx, F: dy}
}
