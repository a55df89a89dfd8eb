// Package nodelink exports a node map as a Graphviz node-link diagram.
//
// # Overview
//
// Every label becomes a filled node pinned at its image position, so the
// diagram has the same geometry as the labels drawn onto the level image.
// Graph edges and the highlighted path become arrows.
//
// # Usage
//
//	dot, err := nodelink.ToDOT(nodes, edges, nodelink.Options{Path: path})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT is meant for the neato engine with pinned positions
// (pos="x,y!"). Image y grows downward and Graphviz y grows upward, so y is
// negated. Saved DOT renders the same way with:
//
//	neato -n -Tsvg lobby.dot
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is needed.
package nodelink
