// Package pkg provides the libraries behind lobbymap, which labels the
// chapters and warps of Celeste lobby maps.
//
// # Overview
//
// Lobbymap reads a lobby level, finds the spawn point, every chapter
// trigger, every warp and the heart door, and records where each one is
// drawn on a screenshot of the level. A second stage paints a label at each
// position and arrows for the edges of a route graph. The pkg directory is
// organized into four areas:
//
//  1. Input: [level], [level/decode] and [source] read level files and mods
//  2. Extraction: [graph] walks the level into a [nodemap]
//  3. Drawing: [text], [fonts] and [render] turn labels and arrows into pixels
//  4. Orchestration: [pipeline] runs both stages for the CLI
//
// # Architecture
//
// The data flow through lobbymap:
//
//	Celeste install / mod zip / level file
//	         ↓
//	    [source] (locate the map's .bin)
//	         ↓
//	    [level/decode] (binary, YAML or XML → element tree)
//	         ↓
//	    [graph] (element tree → label positions)
//	         ↓
//	    [nodemap] (JSON, stored in a PNG iTXt chunk)
//	         ↓
//	    [pipeline] + [render] (labels and arrows onto the PNG)
//
// # Quick Start
//
// Extract a node map and draw it onto an annotated screenshot:
//
//	x := pipeline.NewExtractor(nil, nil)
//	nodes, _ := x.Walk(ctx, pipeline.Source{Level: "lobby.bin"})
//
//	shot, _ := os.Open("shot.png")
//	var annotated bytes.Buffer
//	_ = nodemap.WritePNG(&annotated, shot, nodes)
//
//	r, _ := pipeline.NewRenderer(pipeline.DefaultStyle(), nil)
//	_ = r.Run(ctx, &annotated, out, pipeline.DrawOptions{
//	    Path: pipeline.ParsePath("!-1-2-B"),
//	})
//
// # Main Packages
//
// [level] - The generic element tree every level format decodes into, plus
// typed views of rooms and entities. [level/decode] holds the binary,
// YAML and XML codecs.
//
// [source] - Finds a map inside a game installation: loose mod directories,
// zipped mods and everest.yaml names.
//
// [graph] - The walk itself. Finds the anchors of each room, assigns chapter,
// warp and door labels, and moves room-local positions into export space.
//
// [nodemap] - Label to position maps, their JSON form and the PNG chunk that
// carries them between stages.
//
// [text] - Shapes a label into positioned glyph outlines, with font fallback
// and simplified bidirectional ordering.
//
// [fonts] - The bundled Go fonts and loading of extra font files.
//
// [render] - A vector canvas over an RGBA image with fills, strokes, arrows
// and affine transforms. [render/nodelink] renders node maps as Graphviz
// diagrams.
//
// [cache] - Node maps keyed by the hash of the level bytes.
//
// [observability] - Hooks for metrics around extraction, drawing and the
// cache.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/graph/...           # Specific package
//	go test -run Example ./pkg/...    # Examples only
//
// [level]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/level
// [level/decode]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/level/decode
// [source]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/source
// [graph]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/graph
// [nodemap]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/nodemap
// [text]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/text
// [fonts]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/fonts
// [render]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/lobbymap/pkg/errors
package pkg
