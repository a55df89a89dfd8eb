package pipeline

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/graph"
	"github.com/matzehuels/lobbymap/pkg/nodemap"
)

// Canonicalize maps a path token to a node label. Tokens that sort before "0"
// name the spawn, tokens from ":" up to (not including) "A" name the door,
// and anything else is already a label.
func Canonicalize(token string) string {
	switch {
	case token < "0":
		return graph.SpawnLabel
	case token >= ":" && token < "A":
		return graph.DoorLabel
	}
	return token
}

// ParseGraph reads a graph document: an object mapping each source label to
// an object whose keys are destination labels. Destination values are
// ignored. Both ends are canonicalized like path tokens, and edges are
// returned sorted by source, then destination.
func ParseGraph(data []byte) ([]nodemap.Edge, error) {
	var doc map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Malformed(err, "graph document")
	}
	var edges []nodemap.Edge
	for from, dsts := range doc {
		for to := range dsts {
			edges = append(edges, nodemap.Edge{From: Canonicalize(from), To: Canonicalize(to)})
		}
	}
	slices.SortFunc(edges, func(a, b nodemap.Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return edges, nil
}

// ParsePath splits a hyphen-separated route such as "!-1-B-2" into the
// edges between consecutive stops. Each token is canonicalized first. A
// route with fewer than two stops has no edges.
func ParsePath(s string) []nodemap.Edge {
	tokens := strings.Split(s, "-")
	var edges []nodemap.Edge
	for i := 0; i+1 < len(tokens); i++ {
		edges = append(edges, nodemap.Edge{
			From: Canonicalize(tokens[i]),
			To:   Canonicalize(tokens[i+1]),
		})
	}
	return edges
}
