package render

import (
	"image/color"
	"math"
)

// Class groups labels by the characters they contain.
type Class int

const (
	// Digits labels are chapter numbers.
	Digits Class = iota
	// Letters labels are warp words.
	Letters
	// Symbols labels are everything else, such as the spawn and door marks.
	Symbols
)

func (c Class) String() string {
	switch c {
	case Digits:
		return "digits"
	case Letters:
		return "letters"
	}
	return "symbols"
}

// Classify returns Digits when every rune is an ASCII digit, Letters when
// every rune is an ASCII letter and Symbols otherwise. The empty label is
// Digits.
func Classify(label string) Class {
	if all(label, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return Digits
	}
	if all(label, func(r rune) bool { return r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' }) {
		return Letters
	}
	return Symbols
}

func all(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

// Palette assigns a fill color to each label class.
type Palette map[Class]color.NRGBA

// DefaultPalette is the standard label fill scheme.
func DefaultPalette() Palette {
	return Palette{
		Digits:  {255, 175, 195, 230},
		Letters: {150, 175, 255, 230},
		Symbols: {255, 240, 100, 230},
	}
}

// FillColor returns the default fill for a class.
func FillColor(c Class) color.NRGBA {
	return DefaultPalette()[c]
}

// Colors shared by every label and edge.
var (
	LabelOutline = color.NRGBA{42, 12, 12, 250}
	EdgeColor    = color.NRGBA{190, 190, 250, 180}
	PathColor    = color.NRGBA{120, 250, 120, 230}
)

// Cap is a line cap style.
type Cap int

const (
	CapRound Cap = iota
	CapButt
	CapSquare
)

// Join is a line join style.
type Join int

const (
	JoinRound Join = iota
	JoinMiter
	JoinBevel
)

// StrokeStyle describes how a path is stroked. The zero value strokes with
// round caps and joins.
type StrokeStyle struct {
	Width      float64
	MiterLimit float64
	Cap        Cap
	Join       Join
}

// Stroke styles for edges of the graph and the highlighted path.
var (
	EdgeStroke = StrokeStyle{Width: 4, MiterLimit: 4}
	PathStroke = StrokeStyle{Width: 6, MiterLimit: 4}
)

// LabelStroke returns the glyph outline stroke for a font size: width
// round(size/24), miter limit ceil(size/24).
func LabelStroke(size float64) StrokeStyle {
	return StrokeStyle{
		Width:      math.Round(size / 24),
		MiterLimit: math.Ceil(size / 24),
	}
}
