// Package text lays out short labels and extracts their glyph outlines.
//
// An [Engine] owns the registered font faces and the scratch buffer used to
// scale glyphs. Create one per program, register fonts in fallback order and
// pass it to every call that shapes or draws text:
//
//	eng := text.NewEngine(text.Config{})
//	for _, f := range fonts.Bundled() {
//	    eng.Register(f.Data)
//	}
//
//	opts := text.Options{FontSize: 96, LineHeight: 0.75}
//	layout, err := eng.BuildLayout("B", opts)
//	stream := eng.Outlines(layout)
//	for stream.Next() {
//	    g := stream.Glyph() // outline plus pen position
//	}
//	if err := stream.Err(); err != nil { ... }
//
// # Shaping
//
// Shaping is deliberately small: each rune maps to one glyph of the first
// face that covers it, advanced by the face's horizontal metrics with pair
// kerning. There are no ligatures, no contextual forms and no vertical text.
// Bidirectional text is resolved with two embedding levels using the
// Unicode bidi classes from golang.org/x/text/unicode/bidi.
//
// # Coordinates
//
// Layout coordinates are pixels with y growing downward from the top of the
// first line box. Outlines use the font convention: pixels at the target
// size, y growing upward from the glyph's baseline origin.
package text
