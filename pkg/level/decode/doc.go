// Package decode reads level element trees.
//
// Three encodings are supported:
//
//   - the Celeste binary map format (".bin"), see [Binary]
//   - a YAML dump of the element tree (".yaml", ".yml"), see [YAML]
//   - an XML rendition where each element is a tag (".xml"), see [XML]
//
// [File] picks a reader by file extension. All readers return the root
// [level.Element]; build rooms with [level.Load].
//
// Decoding failures are reported as MALFORMED_INPUT errors.
package decode
