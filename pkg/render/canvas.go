package render

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Canvas draws paths onto an RGBA image.
type Canvas struct {
	img    *image.RGBA
	filler *rasterx.Filler
	dasher *rasterx.Dasher
}

// NewCanvas returns a canvas drawing onto img.
func NewCanvas(img *image.RGBA) *Canvas {
	b := img.Bounds()
	w, h := b.Max.X, b.Max.Y
	scanner := rasterx.NewScannerGV(w, h, img, b)
	c := &Canvas{
		img:    img,
		filler: rasterx.NewFiller(w, h, scanner),
		dasher: rasterx.NewDasher(w, h, scanner),
	}
	c.filler.SetWinding(true)
	c.dasher.SetWinding(true)
	return c
}

// Image returns the underlying image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Fill fills p, mapped through m, with non-zero winding.
func (c *Canvas) Fill(p Path, col color.Color, m rasterx.Matrix2D) {
	if !p.Drawable() {
		return
	}
	c.filler.Clear()
	c.filler.SetColor(col)
	feed(c.filler, p.Transform(m))
	c.filler.Draw()
}

var (
	capFuncs = map[Cap]rasterx.CapFunc{
		CapRound:  rasterx.RoundCap,
		CapButt:   rasterx.ButtCap,
		CapSquare: rasterx.SquareCap,
	}
	joinModes = map[Join]rasterx.JoinMode{
		JoinRound: rasterx.Round,
		JoinMiter: rasterx.Miter,
		JoinBevel: rasterx.Bevel,
	}
)

// Stroke outlines p, mapped through m. Points are transformed before
// stroking, so the width is in device pixels.
func (c *Canvas) Stroke(p Path, col color.Color, s StrokeStyle, m rasterx.Matrix2D) {
	if len(p.Segments) == 0 || s.Width <= 0 {
		return
	}
	c.dasher.Clear()
	c.dasher.SetColor(col)
	c.dasher.SetStroke(
		fixed.Int26_6(s.Width*64),
		fixed.Int26_6(s.MiterLimit*64),
		capFuncs[s.Cap], capFuncs[s.Cap],
		rasterx.RoundGap,
		joinModes[s.Join],
		nil, 0,
	)
	feed(c.dasher, p.Transform(m))
	c.dasher.Draw()
}
