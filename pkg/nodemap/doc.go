// Package nodemap persists a label-to-position map.
//
// The canonical text form is a compact JSON object with keys in sorted order
// and two-element coordinate arrays:
//
//	{"1":[412,96],"B":[130.5,288],"↺":[40,310],"♥":[600,20]}
//
// Positions are in export space: pixels relative to the top-left corner of
// the level's bounding box, which is also the top-left corner of a rendered
// image of the whole level. That image is where the map usually lives:
// [Embed] stores the text in an iTXt chunk with keyword [Keyword] and
// [Extract] reads it back, leaving pixel data untouched.
package nodemap
